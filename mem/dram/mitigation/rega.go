package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/counter"
)

func init() {
	dram.RegisterPlugin("ThrottleREGA", func(p config.Params) (dram.Plugin, error) {
		r := config.NewReader("ThrottleREGA", p)
		t := r.Int("T", 1)
		v := r.Int("V", 1)

		if r.Err() != nil {
			return nil, r.Err()
		}

		if t <= 0 {
			return nil, config.NewConfigurationError("ThrottleREGA",
				"T must be positive, got %d", t)
		}

		return NewThrottleREGA(t, v), nil
	})
}

// ThrottleREGA models REGA, which refreshes victims in parallel with every
// T-th activation. Each such refresh is charged to the activating thread.
type ThrottleREGA struct {
	*ThrottleState

	t, v int
	dev  deviceInfo
	acts *counter.Growable
}

// NewThrottleREGA creates a ThrottleREGA plugin.
func NewThrottleREGA(t, v int) *ThrottleREGA {
	return &ThrottleREGA{
		ThrottleState: &ThrottleState{},
		t:             t,
		v:             v,
	}
}

// Name returns the name of the plugin.
func (p *ThrottleREGA) Name() string {
	return "ThrottleREGA"
}

// Setup sizes the counters.
func (p *ThrottleREGA) Setup(ctx *dram.PluginContext) error {
	dev, err := newDeviceInfo(p.Name(), ctx.Device, "ACT")
	if err != nil {
		return err
	}

	p.dev = dev
	p.ThrottleState.Init(dev.org.NumBanks(), DefaultWindowSize)
	p.acts = counter.NewGrowable(0)

	return nil
}

// Update observes the command issued in the current cycle.
func (p *ThrottleREGA) Update(found bool, req *dram.Request) {
	if !found || !p.dev.isRowAct(req.Command) || req.SourceID < 0 {
		return
	}

	bank := -1
	if p.dev.hasBank(req) {
		bank = p.dev.org.FlatBankID(req.AddrVec)
	}

	if p.t == 1 {
		p.IncrementOperation(bank, req.SourceID)
		return
	}

	p.acts.Increment(req.SourceID, 1)

	if p.acts.Get(req.SourceID) == uint64(p.t) {
		p.acts.Set(req.SourceID, 0)
		p.IncrementOperation(bank, req.SourceID)
	}
}

// RefreshesPerActivation returns V, the number of rows REGA refreshes with
// each counted activation.
func (p *ThrottleREGA) RefreshesPerActivation() int {
	return p.v
}
