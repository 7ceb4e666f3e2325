package scheduler

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterScheduler("BLISSScheduler",
		func(p config.Params) (dram.Scheduler, error) {
			debug, err := readDebug("BLISSScheduler", p)
			if err != nil {
				return nil, err
			}

			s := NewBLISSScheduler()
			s.debug = debug

			return s, nil
		})
}

// BLISSScheduler deprioritizes the reads and writes of blacklisted sources.
// Among requests of equal standing, it serves ready requests first and then
// by arrival order.
type BLISSScheduler struct {
	base

	blacklist dram.BlacklistProvider
}

// NewBLISSScheduler creates a BLISSScheduler.
func NewBLISSScheduler() *BLISSScheduler {
	return &BLISSScheduler{base: base{name: "BLISSScheduler"}}
}

// Setup finds the blacklist provider among the plugins of the controller.
func (s *BLISSScheduler) Setup(ctx *dram.PluginContext) error {
	err := s.setupDevice(ctx)
	if err != nil {
		return err
	}

	provider, ok := dram.FindPlugin[dram.BlacklistProvider](ctx.Host)
	if !ok {
		return config.NewConfigurationError(s.name,
			"requires a plugin that provides a blacklist")
	}

	s.blacklist = provider

	return nil
}

// SetBlacklistProvider replaces the blacklist provider.
func (s *BLISSScheduler) SetBlacklistProvider(p dram.BlacklistProvider) {
	s.blacklist = p
}

func (s *BLISSScheduler) isSafe(req *dram.Request) bool {
	return !req.IsReadWrite() || !s.blacklist.IsBlacklisted(req.SourceID)
}

// Compare returns the preferred one of two requests whose readiness is
// already resolved.
func (s *BLISSScheduler) Compare(a, b *dram.Request) *dram.Request {
	safeA := s.isSafe(a)
	safeB := s.isSafe(b)

	if safeA != safeB {
		if safeA {
			return a
		}

		return b
	}

	return readyFirst(a, b)
}

// GetBestRequest returns the request to serve, or nil if the buffer is empty.
func (s *BLISSScheduler) GetBestRequest(buf *dram.ReqBuffer) *dram.Request {
	return s.best(buf, s)
}
