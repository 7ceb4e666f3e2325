package dram

import (
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/org"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// Builder can build new memory controllers.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	device    Device
	scheduler Scheduler
	plugins   []Plugin
	frontend  any
	source    RequestSource
	hooks     []sim.Hook

	channelID       int
	queueSize       int
	priorityQSize   int
	refreshInterval int
	rfmThreshold    int
	maxCycles       int64
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		queueSize:     32,
		priorityQSize: 512,
	}
}

// WithEngine sets the engine that the controller uses.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the controller. By default, the controller
// runs at the frequency of the device.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDevice sets the device that the controller drives.
func (b Builder) WithDevice(device Device) Builder {
	b.device = device
	return b
}

// WithScheduler sets the scheduling policy.
func (b Builder) WithScheduler(s Scheduler) Builder {
	b.scheduler = s
	return b
}

// WithPlugin appends a plugin. Plugins observe each cycle in the order they
// are added.
func (b Builder) WithPlugin(p Plugin) Builder {
	b.plugins = append(append([]Plugin(nil), b.plugins...), p)
	return b
}

// WithFrontend sets the front end passed to the plugins at setup.
func (b Builder) WithFrontend(frontend any) Builder {
	b.frontend = frontend
	return b
}

// WithRequestSource sets what keeps the controller ticking while its buffers
// are empty.
func (b Builder) WithRequestSource(s RequestSource) Builder {
	b.source = s
	return b
}

// WithHook registers a hook on the controller.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), h)
	return b
}

// WithChannelID sets the id of the channel.
func (b Builder) WithChannelID(id int) Builder {
	b.channelID = id
	return b
}

// WithQueueSize sets the capacity of the read and write buffer.
func (b Builder) WithQueueSize(n int) Builder {
	b.queueSize = n
	return b
}

// WithRefreshInterval sets the number of cycles between two all-bank
// refreshes. Zero disables refresh.
func (b Builder) WithRefreshInterval(n int) Builder {
	b.refreshInterval = n
	return b
}

// WithRFMThreshold sets the number of activations to a bank that trigger an
// RFM. Zero disables RFM.
func (b Builder) WithRFMThreshold(n int) Builder {
	b.rfmThreshold = n
	return b
}

// WithMaxCycles limits the number of cycles the controller runs. Zero means
// no limit.
func (b Builder) WithMaxCycles(n int64) Builder {
	b.maxCycles = n
	return b
}

// Build creates a controller and sets up its scheduler and plugins.
func (b Builder) Build(name string) (*Comp, error) {
	if b.engine == nil {
		return nil, config.NewConfigurationError(name, "engine is required")
	}

	if b.device == nil {
		return nil, config.NewConfigurationError(name, "device is required")
	}

	if b.scheduler == nil {
		return nil, config.NewConfigurationError(name, "scheduler is required")
	}

	if b.queueSize <= 0 {
		return nil, config.NewConfigurationError(name,
			"queue size must be positive, got %d", b.queueSize)
	}

	o, err := org.New(b.device)
	if err != nil {
		return nil, err
	}

	if b.rfmThreshold > 0 {
		if _, ok := b.device.CommandID("RFMsb"); !ok {
			return nil, config.NewConfigurationError(name,
				"RFM injection requires a device with RFMsb")
		}
	}

	freq := b.freq
	if freq == 0 {
		freq = b.device.Freq()
	}

	c := &Comp{
		device:          b.device,
		channelID:       b.channelID,
		org:             o,
		scheduler:       b.scheduler,
		plugins:         b.plugins,
		frontend:        b.frontend,
		source:          b.source,
		buffer:          NewReqBuffer(b.queueSize),
		priority:        NewReqBuffer(b.priorityQSize),
		maxCycles:       b.maxCycles,
		refreshInterval: b.refreshInterval,
		rfmThreshold:    b.rfmThreshold,
		bankActs:        make([]int, o.NumBanks()),
		stats:           Stats{ServedPerSource: make(map[int]uint64)},
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, freq, c)
	c.AddMiddleware(&middleware{Comp: c})

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	err = b.setup(c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (b Builder) setup(c *Comp) error {
	ctx := &PluginContext{
		Device:    c.device,
		ChannelID: c.channelID,
		Frontend:  c.frontend,
		Host:      c,
	}

	for _, p := range c.plugins {
		err := p.Setup(ctx)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"controller": c.Name(),
			"plugin":     p.Name(),
		}).Info("plugin set up")
	}

	err := c.scheduler.Setup(ctx)
	if err != nil {
		return err
	}

	if oracle, ok := FindPlugin[BankSafetyOracle](c); ok {
		c.safety = oracle
	}

	return nil
}
