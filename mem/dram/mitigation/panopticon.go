package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterPlugin("Panopticon", func(p config.Params) (dram.Plugin, error) {
		r := config.NewReader("Panopticon", p)
		threshBit := r.Int("thresh_bit", 16)

		if r.Err() != nil {
			return nil, r.Err()
		}

		if threshBit < 0 || threshBit > 62 {
			return nil, config.NewConfigurationError("Panopticon",
				"thresh_bit must be in [0, 62], got %d", threshBit)
		}

		return NewPanopticon(threshBit), nil
	})
}

// Panopticon counts the activations of every row and reports a refresh each
// time a row counter sets its threshold bit.
type Panopticon struct {
	*ThrottleState

	threshBit uint
	dev       deviceInfo
	cmdACT    int

	banks     []map[int]uint64
	crossings uint64
}

// NewPanopticon creates a Panopticon plugin.
func NewPanopticon(threshBit int) *Panopticon {
	return &Panopticon{
		ThrottleState: &ThrottleState{},
		threshBit:     uint(threshBit),
	}
}

// Name returns the name of the plugin.
func (p *Panopticon) Name() string {
	return "Panopticon"
}

// Setup creates one row table per bank.
func (p *Panopticon) Setup(ctx *dram.PluginContext) error {
	dev, err := newDeviceInfo(p.Name(), ctx.Device, "ACT")
	if err != nil {
		return err
	}

	p.dev = dev
	p.cmdACT = dev.cmds["ACT"]

	numBanks := dev.org.NumBanks()
	p.ThrottleState.Init(numBanks, DefaultWindowSize)

	p.banks = make([]map[int]uint64, numBanks)
	for i := range p.banks {
		p.banks[i] = make(map[int]uint64)
	}

	return nil
}

// Update observes the command issued in the current cycle.
func (p *Panopticon) Update(found bool, req *dram.Request) {
	if !found || req.Command != p.cmdACT || !p.dev.hasBank(req) {
		return
	}

	bank := p.dev.org.FlatBankID(req.AddrVec)
	row := req.AddrVec[p.dev.org.RowLevel]

	before := p.banks[bank][row]
	after := before + 1
	p.banks[bank][row] = after

	if p.bit(before) == 0 && p.bit(after) == 1 {
		p.crossings++
		p.IncrementOperation(bank, req.SourceID)
	}
}

func (p *Panopticon) bit(v uint64) uint64 {
	return (v >> p.threshBit) & 1
}

// Crossings returns the number of threshold crossings so far.
func (p *Panopticon) Crossings() uint64 {
	return p.crossings
}

// RowCount returns the activation count of a row.
func (p *Panopticon) RowCount(bank, row int) uint64 {
	return p.banks[bank][row]
}
