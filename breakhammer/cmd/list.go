package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the schedulers and plugins that configurations can name.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "schedulers: %s\n",
			strings.Join(dram.RegisteredSchedulers(), ", "))
		fmt.Fprintf(out, "plugins: %s\n",
			strings.Join(dram.RegisteredPlugins(), ", "))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
