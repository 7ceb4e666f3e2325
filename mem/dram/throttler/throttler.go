// Package throttler implements BreakHammer's admission control. It reads the
// refresh causation counts of a throttleable mitigation, and blacklists the
// threads whose counts are outliers by limiting their cache MSHRs until the
// end of the window.
package throttler

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/mitigation"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// HookPosThrottle marks a thread being blacklisted. The item is an Event.
var HookPosThrottle = &sim.HookPos{Name: "Throttle"}

// HookPosRelease marks a thread being released at a window boundary. The item
// is an Event.
var HookPosRelease = &sim.HookPos{Name: "Release"}

// Type is the outlier policy of the throttler.
type Type int

// A list of all throttling policies.
const (
	TypeFlat Type = iota
	TypeStdev
	TypeMean
	TypeNone
)

var typeNames = map[string]Type{
	"FLAT":  TypeFlat,
	"STDEV": TypeStdev,
	"MEAN":  TypeMean,
	"NONE":  TypeNone,
}

func (t Type) String() string {
	for name, v := range typeNames {
		if v == t {
			return name
		}
	}

	return "UNKNOWN"
}

// ParseType converts a policy name into a Type.
func ParseType(s string) (Type, bool) {
	t, ok := typeNames[strings.ToUpper(s)]

	return t, ok
}

// Frontend is the processor side that the throttler acts upon.
type Frontend interface {
	NumCores() int
	AddBlacklist(core int)
	EraseBlacklist(core int)
	BlacklistMaxMSHRs(core int) int
	SetBlacklistMaxMSHRs(core, n int)

	// CoreProgress returns the instructions retired and cycles run by a
	// core.
	CoreProgress(core int) (insts, cycles uint64)
}

// Params configures a Throttler.
type Params struct {
	Type                   string
	FlatThresh             float64
	DynamicThresh          float64
	WindowPeriodNS         float64
	SnapshotClk            int64
	BlacklistMaxMSHR       int
	BlacklistMSHRDecrement int
	BreakHammerPlus        bool
}

// DefaultParams returns the default configuration.
func DefaultParams() Params {
	return Params{
		Type:                   "STDEV",
		FlatThresh:             512,
		DynamicThresh:          3,
		WindowPeriodNS:         64000000,
		SnapshotClk:            -1,
		BlacklistMaxMSHR:       5,
		BlacklistMSHRDecrement: 1,
	}
}

// ReadParams reads the parameters of a Throttler.
func ReadParams(p config.Params) (Params, error) {
	d := DefaultParams()
	r := config.NewReader("Throttler", p)

	params := Params{
		Type:                   r.String("throttle_type", d.Type),
		FlatThresh:             r.Float("throttle_flat_thresh", d.FlatThresh),
		DynamicThresh:          r.Float("throttle_dynamic_thresh", d.DynamicThresh),
		WindowPeriodNS:         r.Float("window_period_ns", d.WindowPeriodNS),
		SnapshotClk:            int64(r.Int("snapshot_clk", int(d.SnapshotClk))),
		BlacklistMaxMSHR:       r.Int("blacklist_max_mshr", d.BlacklistMaxMSHR),
		BlacklistMSHRDecrement: r.Int("blacklist_mshr_decrement", d.BlacklistMSHRDecrement),
		BreakHammerPlus:        r.Bool("breakhammer_plus", d.BreakHammerPlus),
	}

	return params, r.Err()
}

func init() {
	dram.RegisterPlugin("Throttler", func(p config.Params) (dram.Plugin, error) {
		params, err := ReadParams(p)
		if err != nil {
			return nil, err
		}

		return New(params), nil
	})
}

// Event describes a thread entering or leaving the blacklist.
type Event struct {
	Core      int
	Clk       int64
	Refs      float64
	MSHRLimit int

	// Duration is the number of cycles the thread was throttled. It is only
	// set on release.
	Duration int64
}

// Stats summarizes the throttling activity.
type Stats struct {
	ThrottleCounts    []uint64
	ThrottleDurations []uint64

	// InstsBeforeBlacklist and CyclesBeforeBlacklist hold the progress of
	// each core when the snapshot was taken.
	InstsBeforeBlacklist  []uint64
	CyclesBeforeBlacklist []uint64

	// FirstBlacklistClk is -1 if no thread was ever blacklisted.
	FirstBlacklistClk int64
}

// Throttler is a plugin that blacklists threads that cause outlier numbers of
// preventive refreshes.
type Throttler struct {
	sim.HookableBase

	params Params
	kind   Type

	device   dram.Device
	rowLevel int
	frontend Frontend
	target   mitigation.Throttleable

	numCores     int
	windowCycles int64
	clk          int64

	throttled       []bool
	beginClk        []int64
	refSums         []float64
	everThrottled   bool
	snapshotOnFirst bool

	stats Stats
}

// New creates a Throttler.
func New(params Params) *Throttler {
	return &Throttler{params: params}
}

// Name returns the name of the plugin.
func (t *Throttler) Name() string {
	return "Throttler"
}

// Setup connects the throttler to the front end and to the first
// throttleable mitigation of the controller.
func (t *Throttler) Setup(ctx *dram.PluginContext) error {
	kind, ok := ParseType(t.params.Type)
	if !ok {
		return config.NewConfigurationError(t.Name(),
			"unknown throttle_type %q", t.params.Type)
	}

	t.kind = kind

	frontend, ok := ctx.Frontend.(Frontend)
	if !ok {
		return config.NewConfigurationError(t.Name(),
			"front end does not support blacklisting")
	}

	if ctx.Device == nil {
		return config.NewConfigurationError(t.Name(),
			"no device in the plugin context")
	}

	t.frontend = frontend
	t.device = ctx.Device

	t.rowLevel, ok = ctx.Device.LevelIndex("row")
	if !ok {
		return config.NewConfigurationError(t.Name(), "device has no row level")
	}

	err := t.setupWindow()
	if err != nil {
		return err
	}

	t.numCores = frontend.NumCores()
	for i := 0; i < t.numCores; i++ {
		frontend.SetBlacklistMaxMSHRs(i, t.params.BlacklistMaxMSHR+1)
	}

	t.throttled = make([]bool, t.numCores)
	t.beginClk = make([]int64, t.numCores)
	t.refSums = make([]float64, t.numCores)
	t.snapshotOnFirst = t.params.SnapshotClk < 0
	t.stats = Stats{
		ThrottleCounts:        make([]uint64, t.numCores),
		ThrottleDurations:     make([]uint64, t.numCores),
		InstsBeforeBlacklist:  make([]uint64, t.numCores),
		CyclesBeforeBlacklist: make([]uint64, t.numCores),
		FirstBlacklistClk:     -1,
	}

	target, ok := dram.FindPlugin[mitigation.Throttleable](ctx.Host)
	if ok {
		t.target = target
		t.target.SetBreakHammerPlus(t.params.BreakHammerPlus)
	} else {
		logrus.WithField("plugin", t.Name()).
			Warn("no throttleable mitigation, throttling disabled")
	}

	logrus.WithFields(logrus.Fields{
		"plugin":        t.Name(),
		"type":          t.kind,
		"window_cycles": t.windowCycles,
		"cores":         t.numCores,
	}).Info("throttler set up")

	return nil
}

func (t *Throttler) setupWindow() error {
	tCK := t.device.ClockPeriodPS()
	if tCK <= 0 {
		return config.NewConfigurationError(t.Name(),
			"invalid device clock period %d ps", tCK)
	}

	t.windowCycles = int64(t.params.WindowPeriodNS / (float64(tCK) / 1000))
	if t.windowCycles <= 0 {
		return config.NewConfigurationError(t.Name(),
			"window_period_ns %v is shorter than a clock cycle",
			t.params.WindowPeriodNS)
	}

	return nil
}

// Update runs the window timer and evaluates the threads on every row
// activation.
func (t *Throttler) Update(found bool, req *dram.Request) {
	t.clk++

	if t.target == nil || t.kind == TypeNone {
		return
	}

	if t.clk%t.windowCycles == 0 {
		t.onNewWindow()
	}

	if t.clk == t.params.SnapshotClk {
		t.takeSnapshot()
	}

	if !found || !t.isRowAct(req.Command) {
		return
	}

	if req.SourceID >= 0 {
		t.target.OnNewAct(req.SourceID)
	}

	t.evaluate()
}

func (t *Throttler) isRowAct(cmd int) bool {
	return t.device.CommandMeta(cmd).IsOpening &&
		t.device.CommandScope(cmd) == t.rowLevel
}

func (t *Throttler) onNewWindow() {
	t.target.OnNewWindow()

	for i := 0; i < t.numCores; i++ {
		if t.throttled[i] {
			t.release(i)
		}

		t.throttled[i] = false
	}
}

func (t *Throttler) release(core int) {
	t.frontend.EraseBlacklist(core)
	t.frontend.SetBlacklistMaxMSHRs(core, t.params.BlacklistMaxMSHR+1)

	duration := t.clk - t.beginClk[core]
	t.stats.ThrottleDurations[core] += uint64(duration)

	t.InvokeHook(sim.HookCtx{
		Domain: t,
		Pos:    HookPosRelease,
		Item: Event{
			Core:      core,
			Clk:       t.clk,
			MSHRLimit: t.params.BlacklistMaxMSHR + 1,
			Duration:  duration,
		},
	})

	logrus.WithFields(logrus.Fields{
		"core":     core,
		"clk":      t.clk,
		"duration": duration,
	}).Debug("thread released")
}

func (t *Throttler) evaluate() {
	for i := range t.refSums {
		t.refSums[i] = t.target.TotalSourceRefs(i)
	}

	mean, stdev := meanStdev(t.refSums)
	wasClean := !t.everThrottled

	for i := 0; i < t.numCores; i++ {
		if t.throttled[i] || t.refSums[i] <= t.params.FlatThresh {
			continue
		}

		if t.isOutlier(t.refSums[i], mean, stdev) {
			t.throttle(i)
		}
	}

	if wasClean && t.everThrottled {
		t.stats.FirstBlacklistClk = t.clk

		if t.snapshotOnFirst {
			t.takeSnapshot()
		}
	}
}

func (t *Throttler) isOutlier(refs, mean, stdev float64) bool {
	k := t.params.DynamicThresh

	switch t.kind {
	case TypeFlat:
		return true
	case TypeStdev:
		return refs > mean+k*stdev
	case TypeMean:
		return refs > mean*(1+k)
	default:
		logrus.Panicf("unknown throttle type %d", t.kind)
	}

	return false
}

// meanStdev returns the mean and the sample standard deviation. Fewer than
// two values have no spread.
func meanStdev(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}

	return stat.MeanStdDev(values, nil)
}

func (t *Throttler) throttle(core int) {
	t.everThrottled = true
	t.throttled[core] = true
	t.beginClk[core] = t.clk
	t.stats.ThrottleCounts[core]++

	t.frontend.AddBlacklist(core)
	limit := t.frontend.BlacklistMaxMSHRs(core) - t.params.BlacklistMSHRDecrement
	t.frontend.SetBlacklistMaxMSHRs(core, limit)

	t.InvokeHook(sim.HookCtx{
		Domain: t,
		Pos:    HookPosThrottle,
		Item: Event{
			Core:      core,
			Clk:       t.clk,
			Refs:      t.refSums[core],
			MSHRLimit: limit,
		},
	})

	logrus.WithFields(logrus.Fields{
		"core":  core,
		"clk":   t.clk,
		"refs":  t.refSums[core],
		"limit": limit,
	}).Debug("thread throttled")
}

func (t *Throttler) takeSnapshot() {
	for i := 0; i < t.numCores; i++ {
		insts, cycles := t.frontend.CoreProgress(i)
		t.stats.InstsBeforeBlacklist[i] = insts
		t.stats.CyclesBeforeBlacklist[i] = cycles
	}
}

// Finalize accounts the throttling of the threads still blacklisted.
func (t *Throttler) Finalize() {
	for i := 0; i < t.numCores; i++ {
		if t.throttled[i] {
			t.stats.ThrottleDurations[i] += uint64(t.clk - t.beginClk[i])
		}
	}
}

// IsBlacklisted tells whether a thread is throttled in the current window.
func (t *Throttler) IsBlacklisted(sourceID int) bool {
	return sourceID >= 0 && sourceID < len(t.throttled) && t.throttled[sourceID]
}

// Blacklisted returns the ids of the throttled threads.
func (t *Throttler) Blacklisted() []int {
	var ids []int

	for i, b := range t.throttled {
		if b {
			ids = append(ids, i)
		}
	}

	return ids
}

// WindowCycles returns the length of a window in cycles.
func (t *Throttler) WindowCycles() int64 {
	return t.windowCycles
}

// Clock returns the number of cycles observed.
func (t *Throttler) Clock() int64 {
	return t.clk
}

// Stats returns the throttling statistics.
func (t *Throttler) Stats() Stats {
	return t.stats
}
