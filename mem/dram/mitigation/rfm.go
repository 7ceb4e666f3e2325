package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/counter"
)

func init() {
	dram.RegisterPlugin("ThrottleRFM", func(_ config.Params) (dram.Plugin, error) {
		return NewThrottleRFM(), nil
	})
}

// ThrottleRFM charges every RFM or victim row refresh to the thread with the
// most activations since the previous one.
type ThrottleRFM struct {
	*ThrottleState

	dev      deviceInfo
	cmdRFMab int
	cmdRFMsb int
	cmdVRR   int
	acts     *counter.Growable
}

// NewThrottleRFM creates a ThrottleRFM plugin.
func NewThrottleRFM() *ThrottleRFM {
	return &ThrottleRFM{ThrottleState: &ThrottleState{}}
}

// Name returns the name of the plugin.
func (p *ThrottleRFM) Name() string {
	return "ThrottleRFM"
}

// Setup checks the device commands.
func (p *ThrottleRFM) Setup(ctx *dram.PluginContext) error {
	dev, err := newDeviceInfo(p.Name(), ctx.Device, "RFMab", "RFMsb", "VRR")
	if err != nil {
		return err
	}

	p.dev = dev
	p.cmdRFMab = dev.cmds["RFMab"]
	p.cmdRFMsb = dev.cmds["RFMsb"]
	p.cmdVRR = dev.cmds["VRR"]
	p.ThrottleState.Init(dev.org.NumBanks(), DefaultWindowSize)
	p.acts = counter.NewGrowable(0)

	return nil
}

// Update observes the command issued in the current cycle.
func (p *ThrottleRFM) Update(found bool, req *dram.Request) {
	if !found {
		return
	}

	switch req.Command {
	case p.cmdRFMab, p.cmdRFMsb, p.cmdVRR:
		p.chargeTopActivator(req)
	}

	if !p.dev.isRowAct(req.Command) || req.SourceID < 0 {
		return
	}

	p.acts.Increment(req.SourceID, 1)
}

func (p *ThrottleRFM) chargeTopActivator(req *dram.Request) {
	top := -1
	var topActs uint64

	for i := 0; i < p.acts.Size(); i++ {
		if a := p.acts.Get(i); a > topActs {
			top = i
			topActs = a
		}
	}

	p.acts.Clear()

	if top < 0 {
		return
	}

	bank := -1
	if p.dev.hasBank(req) {
		bank = p.dev.org.FlatBankID(req.AddrVec)
	}

	p.Charge(bank, top)
}
