package simulation

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/datarecording"
	"github.com/CMU-SAFARI/BreakHammer/frontend"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/throttler"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/tracker"
	"github.com/CMU-SAFARI/BreakHammer/monitoring"
	"github.com/CMU-SAFARI/BreakHammer/sim"

	// Register the implementations that configurations can name.
	_ "github.com/CMU-SAFARI/BreakHammer/mem/dram/bliss"
	_ "github.com/CMU-SAFARI/BreakHammer/mem/dram/ddr"
	_ "github.com/CMU-SAFARI/BreakHammer/mem/dram/mitigation"
	_ "github.com/CMU-SAFARI/BreakHammer/mem/dram/scheduler"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg        *config.Config
	recordPath string
	monitorOn  bool
	maxCycles  int64
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{cfg: config.Default()}
}

// WithConfig sets the configuration to simulate.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithRecording records the simulation into path.sqlite3, overriding the
// configured path.
func (b Builder) WithRecording(path string) Builder {
	b.recordPath = path
	return b
}

// WithMonitoring starts the monitoring server even if the configuration does
// not ask for it.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMaxCycles stops the simulation after a number of controller cycles.
func (b Builder) WithMaxCycles(n int64) Builder {
	b.maxCycles = n
	return b
}

// Build assembles the device, the controller with its scheduler and plugins,
// and the front end.
func (b Builder) Build() (*Simulation, error) {
	cfg := b.cfg

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	err = b.checkTermination()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:            xid.New().String(),
		engine:        sim.NewSerialEngine(),
		compNameIndex: make(map[string]int),
		maxCycles:     b.maxCycles,
	}

	s.device, err = dram.NewDevice(cfg.Device.Impl, cfg.Device.Params)
	if err != nil {
		return nil, err
	}

	s.frontend, err = b.buildFrontend(s)
	if err != nil {
		return nil, err
	}

	err = b.buildRecorder(s)
	if err != nil {
		return nil, err
	}

	s.ctrl, err = b.buildController(s)
	if err != nil {
		return nil, err
	}

	s.frontend.SetSender(s.ctrl)

	s.RegisterComponent(s.ctrl)
	s.RegisterComponent(s.frontend)

	if b.monitorOn || cfg.Monitoring.Enabled {
		b.startMonitor(s)
	}

	return s, nil
}

func (b Builder) checkTermination() error {
	if b.maxCycles > 0 {
		return nil
	}

	for i, c := range b.cfg.Frontend.Cores {
		if c.Requests <= 0 {
			return config.NewConfigurationError("Simulation",
				"core %d has no request limit and no cycle limit is set", i)
		}
	}

	return nil
}

func (b Builder) buildFrontend(s *Simulation) (*frontend.Comp, error) {
	fb, err := frontend.MakeBuilder().
		WithEngine(s.engine).
		WithDevice(s.device).
		WithChannelID(b.cfg.Controller.ChannelID).
		WithMaxCycles(b.maxCycles).
		WithConfig(b.cfg.Frontend)
	if err != nil {
		return nil, err
	}

	return fb.Build("Frontend")
}

func (b Builder) buildRecorder(s *Simulation) error {
	path := b.recordPath
	if path == "" {
		path = b.cfg.Recording.Path
	}

	if path == "" {
		return nil
	}

	r, err := datarecording.New(path)
	if err != nil {
		return err
	}

	s.recorder = r
	s.execRecorder = datarecording.NewExecRecorder(r)
	s.execRecorder.Start()
	s.execRecorder.Add("Simulation ID", s.id)
	s.execRecorder.Add("Device", b.cfg.Device.Impl)
	s.execRecorder.Add("Scheduler", b.cfg.Scheduler.Impl)

	return nil
}

func (b Builder) buildController(s *Simulation) (*dram.Comp, error) {
	cfg := b.cfg

	sched, err := dram.NewScheduler(cfg.Scheduler.Impl, cfg.Scheduler.Params)
	if err != nil {
		return nil, err
	}

	cb := dram.MakeBuilder().
		WithEngine(s.engine).
		WithDevice(s.device).
		WithScheduler(sched).
		WithFrontend(s.frontend).
		WithRequestSource(s.frontend).
		WithChannelID(cfg.Controller.ChannelID).
		WithQueueSize(cfg.Controller.QueueSize).
		WithRefreshInterval(cfg.Controller.RefreshInterval).
		WithRFMThreshold(cfg.Controller.RFMThreshold).
		WithMaxCycles(b.maxCycles)

	for _, pc := range cfg.Plugins {
		p, err := dram.NewPlugin(pc.Impl, pc.Params)
		if err != nil {
			return nil, err
		}

		if d, ok := p.(*tracker.CommandDumper); ok && s.recorder != nil {
			d.WithRecorder(s.recorder)
		}

		if t, ok := p.(*throttler.Throttler); ok &&
			s.recorder != nil && cfg.Recording.ThrottleEvents {
			t.AcceptHook(datarecording.NewThrottleEventRecorder(
				s.recorder, cfg.Controller.ChannelID))
		}

		cb = cb.WithPlugin(p)
	}

	return cb.Build("Ctrl")
}

func (b Builder) startMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor().
		WithPortNumber(b.cfg.Monitoring.Port).
		WithBrowser(b.cfg.Monitoring.OpenBrowser)
	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterComponent(s.ctrl)
	s.monitor.RegisterComponent(s.frontend)

	for _, p := range s.ctrl.Plugins() {
		if l, ok := p.(monitoring.BlacklistLister); ok {
			s.monitor.RegisterBlacklist(s.ctrl.Name()+"."+p.Name(), l)
		}
	}

	if b.maxCycles > 0 {
		bar := s.monitor.CreateProgressBar("Cycles", uint64(b.maxCycles))
		s.engine.AcceptHook(&progressHook{bar: bar, ctrl: s.ctrl})
	}

	s.monitorURL = s.monitor.StartServer()

	logrus.WithField("url", s.monitorURL).Info("monitoring started")
}
