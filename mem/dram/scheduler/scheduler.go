// Package scheduler provides the request scheduling policies of the memory
// controller.
package scheduler

import (
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

// comparer picks the preferred one of two requests.
type comparer interface {
	Compare(a, b *dram.Request) *dram.Request
}

// base holds what both policies share.
type base struct {
	name   string
	device dram.Device
	clk    int64
	debug  bool
}

func (b *base) Name() string {
	return b.name
}

func (b *base) setupDevice(ctx *dram.PluginContext) error {
	if ctx.Device == nil {
		return config.NewConfigurationError(b.name,
			"no device in the scheduler context")
	}

	b.device = ctx.Device

	return nil
}

// Tick advances the scheduler clock.
func (b *base) Tick() {
	b.clk++
}

// Clock returns the number of cycles ticked.
func (b *base) Clock() int64 {
	return b.clk
}

// resolve sets the next command of every request and whether the device can
// issue it in the current cycle.
func (b *base) resolve(buf *dram.ReqBuffer) {
	for _, req := range buf.Requests() {
		req.Command = b.device.PrerequisiteCommand(req.FinalCommand, req.AddrVec)
		req.Ready = b.device.CheckReady(req.Command, req.AddrVec)
	}
}

// best folds the buffer with the comparer.
func (b *base) best(buf *dram.ReqBuffer, c comparer) *dram.Request {
	if buf.Len() == 0 {
		return nil
	}

	b.resolve(buf)

	reqs := buf.Requests()
	candidate := reqs[0]

	for _, req := range reqs[1:] {
		candidate = c.Compare(candidate, req)
	}

	if b.debug {
		logrus.WithFields(logrus.Fields{
			"scheduler": b.name,
			"clk":       b.clk,
			"source":    candidate.SourceID,
			"type":      candidate.Type,
			"command":   b.device.CommandName(candidate.Command),
			"ready":     candidate.Ready,
		}).Debug("best request")
	}

	return candidate
}

// readyFirst prefers a ready request, then the earlier one.
func readyFirst(a, b *dram.Request) *dram.Request {
	if a.Ready != b.Ready {
		if a.Ready {
			return a
		}

		return b
	}

	if a.Arrive <= b.Arrive {
		return a
	}

	return b
}

func readDebug(name string, p config.Params) (bool, error) {
	r := config.NewReader(name, p)
	debug := r.Bool("debug", false)

	return debug, r.Err()
}
