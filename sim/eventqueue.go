package sim

import "container/heap"

// EventQueueImpl orders events by time. Events of the same time leave in the
// order they were pushed.
type EventQueueImpl struct {
	events eventHeap
	seq    uint64
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueueImpl {
	return &EventQueueImpl{}
}

// Push adds an event.
func (q *EventQueueImpl) Push(evt Event) {
	q.seq++
	heap.Push(&q.events, queuedEvent{evt: evt, seq: q.seq})
}

// Pop removes and returns the earliest event.
func (q *EventQueueImpl) Pop() Event {
	return heap.Pop(&q.events).(queuedEvent).evt
}

// Peek returns the earliest event without removing it.
func (q *EventQueueImpl) Peek() Event {
	return q.events[0].evt
}

// Len returns the number of queued events.
func (q *EventQueueImpl) Len() int {
	return len(q.events)
}

type queuedEvent struct {
	evt Event
	seq uint64
}

type eventHeap []queuedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queuedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]

	return last
}
