package datarecording

import (
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/throttler"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// ThrottleEventTable is the table that holds the throttle events.
const ThrottleEventTable = "throttle_events"

type throttleEntry struct {
	Channel   int
	Kind      string
	Core      int
	Clk       int64
	Refs      float64
	MSHRLimit int
	Duration  int64
}

// ThrottleEventRecorder is a hook that records every blacklisting and release
// of a throttler.
type ThrottleEventRecorder struct {
	recorder DataRecorder
	channel  int
}

// NewThrottleEventRecorder creates the event table if needed and returns a
// recorder for the throttler of one channel.
func NewThrottleEventRecorder(
	recorder DataRecorder,
	channel int,
) *ThrottleEventRecorder {
	exists := false
	for _, t := range recorder.ListTables() {
		if t == ThrottleEventTable {
			exists = true
		}
	}

	if !exists {
		recorder.CreateTable(ThrottleEventTable, throttleEntry{})
	}

	return &ThrottleEventRecorder{recorder: recorder, channel: channel}
}

// Func records the event of the hook context.
func (r *ThrottleEventRecorder) Func(ctx sim.HookCtx) {
	evt, ok := ctx.Item.(throttler.Event)
	if !ok {
		return
	}

	r.recorder.InsertData(ThrottleEventTable, throttleEntry{
		Channel:   r.channel,
		Kind:      ctx.Pos.Name,
		Core:      evt.Core,
		Clk:       evt.Clk,
		Refs:      evt.Refs,
		MSHRLimit: evt.MSHRLimit,
		Duration:  evt.Duration,
	})
}
