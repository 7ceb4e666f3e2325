package sim

// VTimeInSec is a point in simulated time, in seconds.
type VTimeInSec float64

// An Engine runs events in time order. Components schedule their own ticks on
// it; hooks observe every event it handles.
type Engine interface {
	Hookable

	// Schedule queues an event. Scheduling an event earlier than the current
	// time is a bug and panics.
	Schedule(e Event)

	// CurrentTime returns the time of the event being handled.
	CurrentTime() VTimeInSec

	// Run handles events until none is left or a handler fails.
	Run() error

	// Pause blocks the engine before the next event until Continue is called.
	Pause()
	Continue()

	// Inspect calls f while no event is being handled. It may be called from
	// any goroutine, paused or not.
	Inspect(f func())
}
