package dram

// PluginContext is what a plugin or a scheduler receives at setup. The references
// stay valid until the simulation terminates.
type PluginContext struct {
	Device    Device
	ChannelID int

	// Frontend is the processor side of the simulation. Plugins assert the
	// capabilities they need from it.
	Frontend any

	Host PluginHost
}

// A Plugin observes every cycle of a controller.
type Plugin interface {
	Name() string

	// Setup is called once before the first cycle. An error aborts the
	// simulation.
	Setup(ctx *PluginContext) error

	// Update is called exactly once per cycle. If found is false, req is nil
	// and no command is issued in the cycle.
	Update(found bool, req *Request)
}

// A Finalizer is a plugin that needs to act when the simulation ends.
type Finalizer interface {
	Finalize()
}

// A PluginHost owns a list of plugins.
type PluginHost interface {
	Plugins() []Plugin
}

// A BlacklistProvider tells whether a source is blacklisted.
type BlacklistProvider interface {
	IsBlacklisted(sourceID int) bool
}

// A BankSafetyOracle tells whether a bank needs no RFM.
type BankSafetyOracle interface {
	IsBankSafe(flatBankID int) bool
}

// FindPlugin returns the first plugin of the host that implements T.
func FindPlugin[T any](host PluginHost) (T, bool) {
	var zero T

	if host == nil {
		return zero, false
	}

	for _, p := range host.Plugins() {
		if t, ok := p.(T); ok {
			return t, true
		}
	}

	return zero, false
}

// A Scheduler selects the request to serve in each cycle.
type Scheduler interface {
	Name() string
	Setup(ctx *PluginContext) error

	// Compare returns the preferred one of two requests.
	Compare(a, b *Request) *Request

	// GetBestRequest returns the preferred request of the buffer, or nil if
	// the buffer is empty.
	GetBestRequest(buf *ReqBuffer) *Request

	Tick()
}
