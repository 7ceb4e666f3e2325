package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterPlugin("SilverBullet", func(p config.Params) (dram.Plugin, error) {
		r := config.NewReader("SilverBullet", p)
		params := SilverBulletParams{
			UnsafeHammerCount: r.Int("unsafe_hammer_count", 1024),
			BlastRadius:       r.Int("blast_radius", 1),
			WindowMaxActs:     r.Int("window_max_acts", 512),
			WindowNumRefs:     r.Int("window_num_refs", 512),
			RefThresh:         r.Int("ref_thresh", 128),
			SubBankSize:       r.Int("subbank_size", 1024),
		}

		if r.Err() != nil {
			return nil, r.Err()
		}

		return NewSilverBullet(params), nil
	})
}

// SilverBulletParams configures SilverBullet.
type SilverBulletParams struct {
	UnsafeHammerCount int
	BlastRadius       int
	WindowMaxActs     int
	WindowNumRefs     int
	RefThresh         int
	SubBankSize       int
}

type subBank struct {
	size    int
	frac    int
	pending int
	queued  bool
}

// SilverBullet splits each bank into sub-banks and schedules preventive
// refreshes to the sub-banks that accumulate the most activations, at the
// rate of the regular refreshes.
type SilverBullet struct {
	*ThrottleState

	params SilverBulletParams
	dev    deviceInfo

	subBanks    [][]*subBank
	consumeList []*subBank

	actsPerRef    float64
	actCounter    int
	consumeBucket int
	mitigations   uint64
}

// NewSilverBullet creates a SilverBullet plugin.
func NewSilverBullet(params SilverBulletParams) *SilverBullet {
	return &SilverBullet{
		ThrottleState: &ThrottleState{},
		params:        params,
	}
}

// Name returns the name of the plugin.
func (s *SilverBullet) Name() string {
	return "SilverBullet"
}

// Setup validates the sub-bank sizing and creates the sub-bank tables.
func (s *SilverBullet) Setup(ctx *dram.PluginContext) error {
	dev, err := newDeviceInfo(s.Name(), ctx.Device, "ACT")
	if err != nil {
		return err
	}

	s.dev = dev

	err = s.validate(dev.org.NumRows)
	if err != nil {
		return err
	}

	numBanks := dev.org.NumBanks()
	s.ThrottleState.Init(numBanks, DefaultWindowSize)

	sizes := s.subBankSizes(dev.org.NumRows)
	s.subBanks = make([][]*subBank, numBanks)

	for i := range s.subBanks {
		s.subBanks[i] = make([]*subBank, len(sizes))
		for j, size := range sizes {
			s.subBanks[i][j] = &subBank{size: size}
		}
	}

	s.actCounter = 0
	s.consumeBucket = 0

	return nil
}

func (s *SilverBullet) validate(rows int) error {
	p := s.params

	if p.WindowNumRefs <= 0 {
		return config.NewConfigurationError(s.Name(),
			"window_num_refs must be positive, got %d", p.WindowNumRefs)
	}

	s.actsPerRef = float64(p.WindowMaxActs) / float64(p.WindowNumRefs)

	if float64(p.RefThresh) < 2*(s.actsPerRef+1) {
		return config.NewConfigurationError(s.Name(),
			"constraint D >= 2(T/R + 1) failed: D=%d T=%d R=%d",
			p.RefThresh, p.WindowMaxActs, p.WindowNumRefs)
	}

	if p.SubBankSize < 2*p.BlastRadius || p.SubBankSize > rows {
		return config.NewConfigurationError(s.Name(),
			"constraint 2B <= S_SB <= S_B failed: B=%d S_SB=%d S_B=%d",
			p.BlastRadius, p.SubBankSize, rows)
	}

	return nil
}

// subBankSizes returns the sizes of the sub-banks of one bank: full
// sub-banks, then at most one remainder sub-bank, so they tile the bank
// exactly.
func (s *SilverBullet) subBankSizes(rows int) []int {
	var sizes []int

	for i := 0; i < rows/s.params.SubBankSize; i++ {
		sizes = append(sizes, s.params.SubBankSize)
	}

	if rem := rows % s.params.SubBankSize; rem != 0 {
		sizes = append(sizes, rem)
	}

	return sizes
}

// Update drains one pending mitigation if the consume bucket allows it, and
// accounts the activation issued in the current cycle.
func (s *SilverBullet) Update(found bool, req *dram.Request) {
	s.consume()

	if !found || !s.dev.isRowAct(req.Command) || !s.dev.hasBank(req) {
		return
	}

	bank := s.dev.org.FlatBankID(req.AddrVec)
	row := req.AddrVec[s.dev.org.RowLevel]
	sb := s.subBanks[bank][row/s.params.SubBankSize]

	sb.frac++
	s.actCounter++

	if sb.frac >= s.params.RefThresh {
		sb.frac = 0
		sb.pending++

		if !sb.queued {
			sb.queued = true
			s.consumeList = append(s.consumeList, sb)
		}

		s.IncrementOperation(bank, req.SourceID)
	}

	if float64(s.actCounter) > s.actsPerRef {
		s.actCounter = 0
		s.consumeBucket++
	}
}

func (s *SilverBullet) consume() {
	if s.consumeBucket == 0 {
		return
	}

	s.consumeBucket--

	idx := -1
	for i, sb := range s.consumeList {
		if idx < 0 || sb.pending > s.consumeList[idx].pending {
			idx = i
		}
	}

	if idx < 0 || s.consumeList[idx].pending == 0 {
		return
	}

	sb := s.consumeList[idx]
	sb.pending--
	s.mitigations++

	if sb.pending == 0 {
		sb.queued = false
		s.consumeList = append(s.consumeList[:idx], s.consumeList[idx+1:]...)
	}
}

// Pending returns the number of pending mitigations of a sub-bank.
func (s *SilverBullet) Pending(bank, subBank int) int {
	return s.subBanks[bank][subBank].pending
}

// NumSubBanks returns the number of sub-banks per bank.
func (s *SilverBullet) NumSubBanks() int {
	if len(s.subBanks) == 0 {
		return 0
	}

	return len(s.subBanks[0])
}

// ConsumeBucket returns the number of mitigations allowed but not yet
// issued.
func (s *SilverBullet) ConsumeBucket() int {
	return s.consumeBucket
}

// Mitigations returns the number of pending mitigations served so far.
func (s *SilverBullet) Mitigations() uint64 {
	return s.mitigations
}
