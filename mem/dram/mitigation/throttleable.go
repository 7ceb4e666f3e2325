// Package mitigation provides RowHammer mitigation plugins that attribute the
// preventive refreshes they cause to the threads that caused them.
package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/counter"
)

// Throttleable is a mitigation whose per-thread refresh causation counts can
// drive the throttler.
type Throttleable interface {
	// SourceRefs returns the number of refreshes a source caused in a bank.
	SourceRefs(bank, src int) float64

	// TotalSourceRefs returns the number of refreshes a source caused in all
	// banks.
	TotalSourceRefs(src int) float64

	// AllRefs returns the per-bank counters.
	AllRefs() []*counter.Windowed

	// OnNewWindow rotates every counter.
	OnNewWindow()

	// OnNewAct records an activation by a source.
	OnNewAct(src int)

	// SetBreakHammerPlus selects proportional attribution.
	SetBreakHammerPlus(enabled bool)
}

// DefaultWindowSize is the number of windows each counter keeps.
const DefaultWindowSize = 2

// ThrottleState holds the causation counters shared by all the mitigations.
// It implements Throttleable.
type ThrottleState struct {
	breakHammerPlus bool

	srcRefs  []*counter.Windowed
	allRefs  *counter.Windowed
	acts     *counter.Growable
	actTotal uint64
}

// Init creates the counters of numBanks banks.
func (s *ThrottleState) Init(numBanks, window int) {
	s.srcRefs = make([]*counter.Windowed, numBanks)
	for i := range s.srcRefs {
		s.srcRefs[i] = counter.NewWindowed(window)
	}

	s.allRefs = counter.NewWindowed(window)
	s.acts = counter.NewGrowable(0)
	s.actTotal = 0
}

// SourceRefs returns the number of refreshes a source caused in a bank.
func (s *ThrottleState) SourceRefs(bank, src int) float64 {
	return s.srcRefs[bank].ReadActive(src)
}

// TotalSourceRefs returns the number of refreshes a source caused in all
// banks.
func (s *ThrottleState) TotalSourceRefs(src int) float64 {
	return s.allRefs.ReadActive(src)
}

// AllRefs returns the per-bank counters.
func (s *ThrottleState) AllRefs() []*counter.Windowed {
	return s.srcRefs
}

// OnNewWindow rotates every counter.
func (s *ThrottleState) OnNewWindow() {
	for _, c := range s.srcRefs {
		c.OnNewWindow()
	}

	s.allRefs.OnNewWindow()
}

// OnNewAct records an activation by a source.
func (s *ThrottleState) OnNewAct(src int) {
	if src < 0 {
		return
	}

	s.acts.Increment(src, 1)
	s.actTotal++
}

// SetBreakHammerPlus selects proportional attribution.
func (s *ThrottleState) SetBreakHammerPlus(enabled bool) {
	s.breakHammerPlus = enabled
}

// BreakHammerPlus tells whether proportional attribution is selected.
func (s *ThrottleState) BreakHammerPlus() bool {
	return s.breakHammerPlus
}

// IncrementOperation records one refresh-causing event in a bank. In direct
// mode the event is charged to src. In proportional mode it is split across
// all sources by their share of the activations recorded since the previous
// event, and the activation counts are cleared.
func (s *ThrottleState) IncrementOperation(bank, src int) {
	if !s.breakHammerPlus {
		s.Charge(bank, src)
		return
	}

	total := float64(max(s.actTotal, 1))

	for i := 0; i < s.acts.Size(); i++ {
		share := float64(s.acts.Get(i)) / total
		s.srcRefs[bank].IncrementAll(i, share)
		s.allRefs.IncrementAll(i, share)
	}

	s.acts.Clear()
	s.actTotal = 0
}

// Charge records one event for src in a bank regardless of the attribution
// mode. A negative bank only updates the all-bank counter. Events without a
// source are dropped.
func (s *ThrottleState) Charge(bank, src int) {
	if src < 0 {
		return
	}

	if bank >= 0 {
		s.srcRefs[bank].IncrementAll(src, 1)
	}

	s.allRefs.IncrementAll(src, 1)
}
