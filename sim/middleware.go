package sim

// A Middleware is one stage of a component's cycle.
type Middleware interface {
	// Tick runs the stage for one cycle and reports whether it did anything.
	Tick() bool
}

// MiddlewareHolder runs the stages of a component in the order they were
// added.
type MiddlewareHolder struct {
	stages []Middleware
}

// AddMiddleware appends a stage.
func (h *MiddlewareHolder) AddMiddleware(m Middleware) {
	h.stages = append(h.stages, m)
}

// Middlewares returns the stages.
func (h *MiddlewareHolder) Middlewares() []Middleware {
	return h.stages
}

// Tick runs every stage once. It reports progress if any stage made some.
func (h *MiddlewareHolder) Tick() bool {
	progress := false

	for _, m := range h.stages {
		progress = m.Tick() || progress
	}

	return progress
}
