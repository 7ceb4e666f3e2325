// Package bliss provides the blacklist of the BLISS scheduling policy.
//
// A source whose reads and writes are served back to back more often than a
// threshold gets blacklisted. All blacklists are cleared periodically.
package bliss

import (
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterPlugin("BLISS", func(p config.Params) (dram.Plugin, error) {
		r := config.NewReader("BLISS", p)
		threshold := r.Int("blacklisting_threshold", 4)
		interval := r.Int("clearing_interval", 10000)

		if r.Err() != nil {
			return nil, r.Err()
		}

		if threshold < 1 {
			return nil, config.NewConfigurationError("BLISS",
				"blacklisting_threshold must be positive, got %d", threshold)
		}

		if interval < 1 {
			return nil, config.NewConfigurationError("BLISS",
				"clearing_interval must be positive, got %d", interval)
		}

		return New(threshold, int64(interval)), nil
	})
}

// Plugin tracks the streaks of served requests and the blacklist.
type Plugin struct {
	threshold int
	interval  int64

	clk        int64
	lastSource int
	streak     int
	blacklist  map[int]bool
}

// New creates a BLISS plugin.
func New(threshold int, interval int64) *Plugin {
	return &Plugin{
		threshold:  threshold,
		interval:   interval,
		lastSource: -1,
		blacklist:  make(map[int]bool),
	}
}

// Name returns the name of the plugin.
func (p *Plugin) Name() string {
	return "BLISS"
}

// Setup logs the parameters.
func (p *Plugin) Setup(ctx *dram.PluginContext) error {
	logrus.WithFields(logrus.Fields{
		"plugin":    p.Name(),
		"channel":   ctx.ChannelID,
		"threshold": p.threshold,
		"interval":  p.interval,
	}).Info("BLISS set up")

	return nil
}

// Update counts the requests served in the current cycle.
func (p *Plugin) Update(found bool, req *dram.Request) {
	p.clk++

	if p.clk%p.interval == 0 {
		p.Clear()
	}

	if !found || !req.IsReadWrite() || req.Command != req.FinalCommand {
		return
	}

	if req.SourceID != p.lastSource {
		p.lastSource = req.SourceID
		p.streak = 0
	}

	p.streak++

	if p.streak > p.threshold && !p.blacklist[req.SourceID] {
		p.blacklist[req.SourceID] = true

		logrus.WithFields(logrus.Fields{
			"source": req.SourceID,
			"clk":    p.clk,
		}).Debug("BLISS blacklisted")
	}
}

// IsBlacklisted tells whether a source is blacklisted.
func (p *Plugin) IsBlacklisted(sourceID int) bool {
	return p.blacklist[sourceID]
}

// Clear removes every source from the blacklist.
func (p *Plugin) Clear() {
	clear(p.blacklist)
}

// NumBlacklisted returns the number of blacklisted sources.
func (p *Plugin) NumBlacklisted() int {
	return len(p.blacklist)
}
