// Command breakhammer runs a single-channel DRAM simulation with RowHammer
// mitigations and BreakHammer throttling.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/CMU-SAFARI/BreakHammer/breakhammer/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}
