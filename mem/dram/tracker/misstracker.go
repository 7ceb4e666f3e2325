// Package tracker provides plugins that observe the commands of a controller
// without affecting them.
package tracker

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/org"
)

func init() {
	dram.RegisterPlugin("MissTracker", func(config.Params) (dram.Plugin, error) {
		return NewMissTracker(), nil
	})
}

// MissTracker counts the row activations caused by each source.
type MissTracker struct {
	device dram.Device
	org    org.Organization

	reads    map[int]uint64
	writes   map[int]uint64
	bankActs []map[int]uint64
}

// NewMissTracker creates a MissTracker.
func NewMissTracker() *MissTracker {
	return &MissTracker{
		reads:  make(map[int]uint64),
		writes: make(map[int]uint64),
	}
}

// Name returns the name of the plugin.
func (t *MissTracker) Name() string {
	return "MissTracker"
}

// Setup creates the per-bank counters.
func (t *MissTracker) Setup(ctx *dram.PluginContext) error {
	if ctx.Device == nil {
		return config.NewConfigurationError(t.Name(),
			"no device in the plugin context")
	}

	o, err := org.New(ctx.Device)
	if err != nil {
		return err
	}

	t.device = ctx.Device
	t.org = o

	t.bankActs = make([]map[int]uint64, o.NumBanks())
	for i := range t.bankActs {
		t.bankActs[i] = make(map[int]uint64)
	}

	return nil
}

// Update counts the row activation issued in the current cycle.
func (t *MissTracker) Update(found bool, req *dram.Request) {
	if !found {
		return
	}

	if !t.device.CommandMeta(req.Command).IsOpening ||
		t.device.CommandScope(req.Command) != t.org.RowLevel {
		return
	}

	switch req.Type {
	case dram.ReqRead:
		t.reads[req.SourceID]++
	case dram.ReqWrite:
		t.writes[req.SourceID]++
	}

	t.bankActs[t.org.FlatBankID(req.AddrVec)][req.SourceID]++
}

// SourceReads returns the number of activations caused by reads of a source.
func (t *MissTracker) SourceReads(src int) uint64 {
	return t.reads[src]
}

// SourceWrites returns the number of activations caused by writes of a
// source.
func (t *MissTracker) SourceWrites(src int) uint64 {
	return t.writes[src]
}

// SourceActs returns the number of activations a source caused in a bank.
func (t *MissTracker) SourceActs(flatBankID, src int) uint64 {
	return t.bankActs[flatBankID][src]
}

// SourceReqs returns the number of activations caused by reads and writes of
// a source.
func (t *MissTracker) SourceReqs(src int) uint64 {
	return t.SourceReads(src) + t.SourceWrites(src)
}

// ResetCounters sets all counters to zero.
func (t *MissTracker) ResetCounters() {
	clear(t.reads)
	clear(t.writes)

	for _, acts := range t.bankActs {
		clear(acts)
	}
}
