package sim

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// HookPosBeforeEvent is triggered before an event is handled.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is triggered after an event is handled.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// A SerialEngine handles one event at a time on the goroutine that calls Run.
// Pause and Continue may be called from other goroutines, such as the
// monitoring server.
type SerialEngine struct {
	HookableBase

	queue *EventQueueImpl

	// timeLock guards now, which the monitor reads while the engine runs.
	timeLock sync.RWMutex
	now      VTimeInSec

	// eventLock is held while an event is handled and while paused.
	eventLock sync.Mutex
	pauseLock sync.Mutex
	paused    bool
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{queue: NewEventQueue()}
}

// Schedule queues an event.
func (e *SerialEngine) Schedule(evt Event) {
	now := e.CurrentTime()
	if evt.Time() < now {
		logrus.Panicf("event %s scheduled at %.12f, before now %.12f",
			reflect.TypeOf(evt), evt.Time(), now)
	}

	e.queue.Push(evt)
}

// CurrentTime returns the time of the event being handled.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.timeLock.RLock()
	defer e.timeLock.RUnlock()

	return e.now
}

func (e *SerialEngine) setTime(t VTimeInSec) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// Run handles the queued events in order. It stops at the first handler
// error.
func (e *SerialEngine) Run() error {
	for e.queue.Len() > 0 {
		err := e.handleNext()
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) handleNext() error {
	e.eventLock.Lock()
	defer e.eventLock.Unlock()

	evt := e.queue.Pop()
	e.setTime(evt.Time())

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	return err
}

// Pause stops the engine before its next event. It returns once the event
// being handled, if any, is done.
func (e *SerialEngine) Pause() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if e.paused {
		return
	}

	e.eventLock.Lock()
	e.paused = true
}

// Continue resumes a paused engine.
func (e *SerialEngine) Continue() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if !e.paused {
		return
	}

	e.paused = false
	e.eventLock.Unlock()
}

// Inspect calls f between two events. A paused engine already holds the
// event lock, so f runs right away.
func (e *SerialEngine) Inspect(f func()) {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if e.paused {
		f()
		return
	}

	e.eventLock.Lock()
	defer e.eventLock.Unlock()

	f()
}
