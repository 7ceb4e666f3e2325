// Package simulation assembles a single-channel BreakHammer simulation from a
// configuration and runs it.
package simulation

import (
	"github.com/CMU-SAFARI/BreakHammer/datarecording"
	"github.com/CMU-SAFARI/BreakHammer/frontend"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/monitoring"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// A Simulation owns the engine and every component of a run.
type Simulation struct {
	id        string
	engine    sim.Engine
	maxCycles int64

	device   dram.Device
	ctrl     *dram.Comp
	frontend *frontend.Comp

	recorder     datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	monitor      *monitoring.Monitor
	monitorURL   string

	components    []sim.Component
	compNameIndex map[string]int
}

// ID returns the unique id of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetController returns the memory controller.
func (s *Simulation) GetController() *dram.Comp {
	return s.ctrl
}

// GetFrontend returns the processor side of the simulation.
func (s *Simulation) GetFrontend() *frontend.Comp {
	return s.frontend
}

// GetDataRecorder returns the data recorder, or nil if the simulation is not
// recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.recorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// Components returns all the components registered with the simulation.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	idx, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[idx]
}

// Run simulates until every request is served or the cycle limit is reached.
// The plugins and the scheduler are finalized afterwards.
func (s *Simulation) Run() error {
	s.frontend.TickLater()
	s.ctrl.TickLater()

	err := s.engine.Run()
	if err != nil {
		return err
	}

	s.ctrl.Finalize()

	if s.monitor != nil {
		for _, bar := range s.progressBars() {
			s.monitor.CompleteProgressBar(bar)
		}
	}

	if s.execRecorder != nil {
		s.execRecorder.Add("Cycles", formatInt(s.ctrl.Clock()))
	}

	return nil
}

// Terminate closes the recorder. It must be called after Run.
func (s *Simulation) Terminate() error {
	if s.recorder == nil {
		return nil
	}

	s.execRecorder.End()

	return s.recorder.Close()
}

func (s *Simulation) progressBars() []*monitoring.ProgressBar {
	var bars []*monitoring.ProgressBar

	for _, h := range s.engine.Hooks() {
		if p, ok := h.(*progressHook); ok {
			bars = append(bars, p.bar)
		}
	}

	return bars
}

// progressHook keeps a progress bar in step with the controller clock.
type progressHook struct {
	bar  *monitoring.ProgressBar
	ctrl *dram.Comp
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	h.bar.SetFinished(uint64(h.ctrl.Clock()))
}
