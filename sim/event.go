package sim

// An Event happens at a point in time and is handled by exactly one handler.
type Event interface {
	Time() VTimeInSec
	Handler() Handler
}

// A Handler reacts to the events scheduled for it.
type Handler interface {
	Handle(e Event) error
}

// EventBase holds the time and the handler of an event.
type EventBase struct {
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates an EventBase.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{time: t, handler: handler}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}
