package mitigation

import (
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterPlugin("Mithril", func(p config.Params) (dram.Plugin, error) {
		r := config.NewReader("Mithril", p)
		numCtrs := r.Int("num_ctrs", 1024)
		adTh := r.Int("ad_th", 0)

		if r.Err() != nil {
			return nil, r.Err()
		}

		if numCtrs <= 0 {
			return nil, config.NewConfigurationError("Mithril",
				"num_ctrs must be positive, got %d", numCtrs)
		}

		return NewMithril(numCtrs, adTh), nil
	})
}

// Mithril tracks, in each bank, the activation counts of a bounded set of
// rows. An RFM refreshes the victims of the most activated row.
type Mithril struct {
	*ThrottleState

	numCtrs int
	adTh    int

	dev      deviceInfo
	cmdACT   int
	cmdRFMab int
	cmdRFMsb int

	banks []*mithrilBank
}

// NewMithril creates a Mithril plugin with numCtrs counters per bank.
func NewMithril(numCtrs, adTh int) *Mithril {
	return &Mithril{
		ThrottleState: &ThrottleState{},
		numCtrs:       numCtrs,
		adTh:          adTh,
	}
}

// Name returns the name of the plugin.
func (m *Mithril) Name() string {
	return "Mithril"
}

// Setup checks the device commands and creates the bank tables.
func (m *Mithril) Setup(ctx *dram.PluginContext) error {
	dev, err := newDeviceInfo(m.Name(), ctx.Device,
		"ACT", "RFMab", "RFMsb", "VRR")
	if err != nil {
		return err
	}

	m.dev = dev
	m.cmdACT = dev.cmds["ACT"]
	m.cmdRFMab = dev.cmds["RFMab"]
	m.cmdRFMsb = dev.cmds["RFMsb"]

	numBanks := dev.org.NumBanks()
	m.ThrottleState.Init(numBanks, DefaultWindowSize)

	m.banks = make([]*mithrilBank, numBanks)
	for i := range m.banks {
		m.banks[i] = newMithrilBank(m.numCtrs)
	}

	logrus.WithFields(logrus.Fields{
		"num_ctrs": m.numCtrs,
		"ad_th":    m.adTh,
		"banks":    numBanks,
	}).Info("Mithril set up")

	return nil
}

// Update observes the command issued in the current cycle.
func (m *Mithril) Update(found bool, req *dram.Request) {
	if !found {
		return
	}

	if !m.dev.hasBank(req) {
		if req.Command == m.cmdRFMab {
			for bank := range m.banks {
				m.refresh(bank, req.SourceID)
			}
		}

		return
	}

	bank := m.dev.org.FlatBankID(req.AddrVec)

	switch req.Command {
	case m.cmdACT:
		m.banks[bank].activate(req.AddrVec[m.dev.org.RowLevel])
	case m.cmdRFMab, m.cmdRFMsb:
		m.refresh(bank, req.SourceID)
	}
}

func (m *Mithril) refresh(bank, src int) {
	m.banks[bank].refresh()
	m.IncrementOperation(bank, src)
}

// IsBankSafe tells whether the spread between the most and the least
// activated rows of a bank is below the adaptive threshold.
func (m *Mithril) IsBankSafe(bank int) bool {
	return m.banks[bank].spread() < uint64(max(m.adTh, 0))
}

// RowCount returns the tracked activation count of a row, and whether the
// row is tracked.
func (m *Mithril) RowCount(bank, row int) (uint64, bool) {
	c, ok := m.banks[bank].counters[row]

	return c, ok
}

// Evictions returns the number of rows evicted from a bank's table.
func (m *Mithril) Evictions(bank int) uint64 {
	return m.banks[bank].evictions
}

// LastVictim returns the row refreshed by the latest RFM to a bank, or false
// if the bank has not refreshed a tracked row yet.
func (m *Mithril) LastVictim(bank int) (int, bool) {
	b := m.banks[bank]

	return b.lastVictim, b.hasVictim
}

type mithrilBank struct {
	capacity int
	counters map[int]uint64

	// maxRow is valid whenever the table is not empty. minRow is recomputed
	// when minStale is set.
	maxRow   int
	minRow   int
	minStale bool

	evictions  uint64
	lastVictim int
	hasVictim  bool
}

func newMithrilBank(capacity int) *mithrilBank {
	return &mithrilBank{
		capacity: capacity,
		counters: make(map[int]uint64, capacity),
		minStale: true,
	}
}

func (b *mithrilBank) activate(row int) {
	if _, ok := b.counters[row]; !ok {
		b.insert(row)
	}

	b.counters[row]++

	if row == b.minRow {
		b.minStale = true
	}

	if len(b.counters) == 1 || b.counters[row] > b.counters[b.maxRow] {
		b.maxRow = row
	}
}

func (b *mithrilBank) insert(row int) {
	if len(b.counters) < b.capacity {
		b.counters[row] = 0
		b.minRow = row
		b.minStale = false

		if len(b.counters) == 1 {
			b.maxRow = row
		}

		return
	}

	victim := b.min()
	count := b.counters[victim]
	delete(b.counters, victim)
	b.evictions++

	b.counters[row] = count
	b.minRow = row
	b.minStale = false

	if victim == b.maxRow {
		b.maxRow = row
	}
}

// min returns the row with the smallest count, the smallest row id among
// equal counts.
func (b *mithrilBank) min() int {
	if !b.minStale {
		return b.minRow
	}

	first := true
	for row, c := range b.counters {
		if first || c < b.counters[b.minRow] ||
			(c == b.counters[b.minRow] && row < b.minRow) {
			b.minRow = row
			first = false
		}
	}

	b.minStale = false

	return b.minRow
}

func (b *mithrilBank) rescanMax() {
	first := true
	for row, c := range b.counters {
		if first || c > b.counters[b.maxRow] ||
			(c == b.counters[b.maxRow] && row < b.maxRow) {
			b.maxRow = row
			first = false
		}
	}
}

func (b *mithrilBank) refresh() {
	if len(b.counters) == 0 {
		return
	}

	b.rescanMax()

	victim := b.maxRow
	b.counters[victim] = b.counters[b.min()]
	b.lastVictim = victim
	b.hasVictim = true
	b.minStale = true

	b.rescanMax()
}

func (b *mithrilBank) spread() uint64 {
	if len(b.counters) == 0 {
		return 0
	}

	return b.counters[b.maxRow] - b.counters[b.min()]
}
