package simulation

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/throttler"
)

// CoreReport is the progress of one core.
type CoreReport struct {
	Insts     uint64
	Cycles    uint64
	Completed uint64
}

// IPC returns the instructions retired per cycle.
func (c CoreReport) IPC() float64 {
	if c.Cycles == 0 {
		return 0
	}

	return float64(c.Insts) / float64(c.Cycles)
}

// RunReport summarizes a finished simulation.
type RunReport struct {
	Cycles     int64
	Controller dram.Stats
	Cores      []CoreReport

	// Throttler is nil if no throttler is plugged in.
	Throttler *throttler.Stats
}

// Report collects the statistics of the components.
func (s *Simulation) Report() RunReport {
	r := RunReport{
		Cycles:     s.ctrl.Clock(),
		Controller: s.ctrl.Stats(),
	}

	for i := 0; i < s.frontend.NumCores(); i++ {
		insts, cycles := s.frontend.CoreProgress(i)
		r.Cores = append(r.Cores, CoreReport{
			Insts:     insts,
			Cycles:    cycles,
			Completed: s.frontend.Completed(i),
		})
	}

	if t, ok := dram.FindPlugin[*throttler.Throttler](s.ctrl); ok {
		stats := t.Stats()
		r.Throttler = &stats
	}

	return r
}

// WriteTo prints the report as aligned text.
func (r RunReport) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "cycles\t%d\n", r.Cycles)
	fmt.Fprintf(tw, "reads\t%d\n", r.Controller.Reads)
	fmt.Fprintf(tw, "writes\t%d\n", r.Controller.Writes)
	fmt.Fprintf(tw, "activations\t%d\n", r.Controller.Activations)
	fmt.Fprintf(tw, "refreshes\t%d\n", r.Controller.Refreshes)
	fmt.Fprintf(tw, "rfms\t%d\n", r.Controller.RFMs)
	fmt.Fprintf(tw, "skipped rfms\t%d\n", r.Controller.SkippedRFMs)

	if r.Controller.Reads > 0 {
		fmt.Fprintf(tw, "avg read latency\t%.2f\n",
			float64(r.Controller.TotalReadLatency)/
				float64(r.Controller.Reads))
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "core\tinsts\tcycles\tipc\tserved\tthrottled\t")

	for i, c := range r.Cores {
		throttled := "-"
		if r.Throttler != nil && i < len(r.Throttler.ThrottleCounts) {
			throttled = formatUint(r.Throttler.ThrottleCounts[i])
		}

		fmt.Fprintf(tw, "%d\t%d\t%d\t%.4f\t%d\t%s\t\n",
			i, c.Insts, c.Cycles, c.IPC(), c.Completed, throttled)
	}

	if r.Throttler != nil && r.Throttler.FirstBlacklistClk >= 0 {
		fmt.Fprintf(tw, "\nfirst blacklist at\t%d\n",
			r.Throttler.FirstBlacklistClk)
	}

	err := tw.Flush()

	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
