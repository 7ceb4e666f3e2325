package dram

import (
	"sort"
	"sync"

	"github.com/CMU-SAFARI/BreakHammer/config"
)

// PluginFactory creates a plugin from its parameters.
type PluginFactory func(params config.Params) (Plugin, error)

// SchedulerFactory creates a scheduler from its parameters.
type SchedulerFactory func(params config.Params) (Scheduler, error)

// DeviceFactory creates a device from its parameters.
type DeviceFactory func(params config.Params) (Device, error)

var (
	registryLock sync.Mutex
	plugins      = map[string]PluginFactory{}
	schedulers   = map[string]SchedulerFactory{}
	devices      = map[string]DeviceFactory{}
)

func register[F any](m map[string]F, kind, name string, f F) {
	registryLock.Lock()
	defer registryLock.Unlock()

	if _, ok := m[name]; ok {
		panic(kind + " " + name + " registered twice")
	}

	m[name] = f
}

func lookup[F any](m map[string]F, kind, name string) (F, error) {
	registryLock.Lock()
	defer registryLock.Unlock()

	f, ok := m[name]
	if !ok {
		var zero F
		return zero, config.NewConfigurationError(
			name, "unknown %s implementation", kind)
	}

	return f, nil
}

func names[F any](m map[string]F) []string {
	registryLock.Lock()
	defer registryLock.Unlock()

	list := make([]string, 0, len(m))
	for name := range m {
		list = append(list, name)
	}

	sort.Strings(list)

	return list
}

// RegisterPlugin makes a plugin implementation available by name.
func RegisterPlugin(name string, f PluginFactory) {
	register(plugins, "plugin", name, f)
}

// RegisterScheduler makes a scheduler implementation available by name.
func RegisterScheduler(name string, f SchedulerFactory) {
	register(schedulers, "scheduler", name, f)
}

// RegisterDevice makes a device implementation available by name.
func RegisterDevice(name string, f DeviceFactory) {
	register(devices, "device", name, f)
}

// NewPlugin creates a registered plugin. Environment overrides are applied to
// the parameters first.
func NewPlugin(name string, params config.Params) (Plugin, error) {
	f, err := lookup(plugins, "plugin", name)
	if err != nil {
		return nil, err
	}

	return f(config.WithEnvOverrides(name, params))
}

// NewScheduler creates a registered scheduler.
func NewScheduler(name string, params config.Params) (Scheduler, error) {
	f, err := lookup(schedulers, "scheduler", name)
	if err != nil {
		return nil, err
	}

	return f(config.WithEnvOverrides(name, params))
}

// NewDevice creates a registered device.
func NewDevice(name string, params config.Params) (Device, error) {
	f, err := lookup(devices, "device", name)
	if err != nil {
		return nil, err
	}

	return f(config.WithEnvOverrides(name, params))
}

// RegisteredPlugins lists the names of all registered plugins.
func RegisteredPlugins() []string {
	return names(plugins)
}

// RegisteredSchedulers lists the names of all registered schedulers.
func RegisteredSchedulers() []string {
	return names(schedulers)
}
