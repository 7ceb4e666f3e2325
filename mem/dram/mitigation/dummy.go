package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterPlugin("DummyMitigation", func(_ config.Params) (dram.Plugin, error) {
		return NewDummyMitigation(), nil
	})
}

// DummyMitigation never detects anything. It gives the throttler counters to
// read in baseline runs.
type DummyMitigation struct {
	*ThrottleState
}

// NewDummyMitigation creates a DummyMitigation plugin.
func NewDummyMitigation() *DummyMitigation {
	return &DummyMitigation{ThrottleState: &ThrottleState{}}
}

// Name returns the name of the plugin.
func (p *DummyMitigation) Name() string {
	return "DummyMitigation"
}

// Setup sizes the counters.
func (p *DummyMitigation) Setup(ctx *dram.PluginContext) error {
	dev, err := newDeviceInfo(p.Name(), ctx.Device)
	if err != nil {
		return err
	}

	p.ThrottleState.Init(dev.org.NumBanks(), DefaultWindowSize)

	return nil
}

// Update does nothing.
func (p *DummyMitigation) Update(bool, *dram.Request) {}
