package scheduler

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterScheduler("BHScheduler",
		func(p config.Params) (dram.Scheduler, error) {
			debug, err := readDebug("BHScheduler", p)
			if err != nil {
				return nil, err
			}

			s := NewBHScheduler()
			s.debug = debug

			return s, nil
		})
}

// BHScheduler serves ready requests first and breaks ties by arrival order.
type BHScheduler struct {
	base
}

// NewBHScheduler creates a BHScheduler.
func NewBHScheduler() *BHScheduler {
	return &BHScheduler{base: base{name: "BHScheduler"}}
}

// Setup keeps the device.
func (s *BHScheduler) Setup(ctx *dram.PluginContext) error {
	return s.setupDevice(ctx)
}

// Compare returns the preferred one of two requests whose readiness is
// already resolved.
func (s *BHScheduler) Compare(a, b *dram.Request) *dram.Request {
	return readyFirst(a, b)
}

// GetBestRequest returns the request to serve, or nil if the buffer is empty.
func (s *BHScheduler) GetBestRequest(buf *dram.ReqBuffer) *dram.Request {
	return s.best(buf, s)
}
