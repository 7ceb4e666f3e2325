package config

import "fmt"

// ConfigurationError reports a configuration problem detected while a
// component is being set up. Simulation must not start after one is raised.
type ConfigurationError struct {
	Component string
	Reason    string
}

// NewConfigurationError creates a ConfigurationError for the named component.
func NewConfigurationError(
	component string,
	format string,
	args ...any,
) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("[BreakHammer::%s] %s", e.Component, e.Reason)
}
