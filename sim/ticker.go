package sim

import "sync"

// TickEvent asks a ticking component to run one cycle.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent.
func MakeTickEvent(handler Handler, t VTimeInSec) TickEvent {
	return TickEvent{EventBase{time: t, handler: handler}}
}

// A Ticker runs one cycle and reports whether it made progress.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules at most one tick per cycle for a handler.
type TickScheduler struct {
	Freq   Freq
	Engine Engine

	lock     sync.Mutex
	handler  Handler
	nextTick VTimeInSec
}

// NewTickScheduler creates a TickScheduler.
func NewTickScheduler(handler Handler, engine Engine, freq Freq) *TickScheduler {
	return &TickScheduler{
		Freq:     freq,
		Engine:   engine,
		handler:  handler,
		nextTick: -1,
	}
}

// TickLater schedules a tick at the next cycle boundary after the current
// time, unless one is already scheduled.
func (t *TickScheduler) TickLater() {
	t.lock.Lock()
	defer t.lock.Unlock()

	at := t.Freq.NextTick(t.Engine.CurrentTime())
	if t.nextTick >= at {
		return
	}

	t.nextTick = at
	t.Engine.Schedule(MakeTickEvent(t.handler, at))
}

// TickingComponent is a component driven by a clock. It keeps ticking as long
// as its Ticker makes progress and goes to sleep otherwise; an external call
// to TickLater wakes it up.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a TickingComponent.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{
		ComponentBase: NewComponentBase(name),
		ticker:        ticker,
	}
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)

	return tc
}

// Handle runs one cycle.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}
