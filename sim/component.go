package sim

// A Named object has a name unique in its simulation.
type Named interface {
	Name() string
}

// A Component is a simulated unit that handles its own events and can be
// observed by hooks.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase gives a component its name and its hooks.
type ComponentBase struct {
	HookableBase

	name string
}

// NewComponentBase creates a ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
