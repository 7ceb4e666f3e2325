package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Params holds the named parameters of one implementation, as decoded from
// the configuration file.
type Params map[string]any

// A Reader reads typed values out of Params. The first failure is retained
// and reported by Err, so that a component can read all its parameters and
// check for errors once.
type Reader struct {
	component string
	params    Params
	err       error
}

// NewReader creates a Reader for the parameters of the named component.
func NewReader(component string, params Params) *Reader {
	if params == nil {
		params = Params{}
	}

	return &Reader{component: component, params: params}
}

// Err returns the first error encountered while reading parameters.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(format string, args ...any) {
	if r.err != nil {
		return
	}

	r.err = NewConfigurationError(r.component, format, args...)
}

// Int reads an integer parameter, or returns def if the parameter is absent.
func (r *Reader) Int(name string, def int) int {
	v, ok := r.params[name]
	if !ok {
		return def
	}

	i, err := toInt(v)
	if err != nil {
		r.fail("parameter %q: %v", name, err)
		return def
	}

	return i
}

// Float reads a floating-point parameter, or returns def if the parameter is
// absent.
func (r *Reader) Float(name string, def float64) float64 {
	v, ok := r.params[name]
	if !ok {
		return def
	}

	f, err := toFloat(v)
	if err != nil {
		r.fail("parameter %q: %v", name, err)
		return def
	}

	return f
}

// Bool reads a boolean parameter, or returns def if the parameter is absent.
func (r *Reader) Bool(name string, def bool) bool {
	v, ok := r.params[name]
	if !ok {
		return def
	}

	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		r.fail("parameter %q: %v is not a boolean", name, v)
		return def
	}

	return b
}

// String reads a string parameter, or returns def if the parameter is absent.
func (r *Reader) String(name string, def string) string {
	v, ok := r.params[name]
	if !ok {
		return def
	}

	s, ok := v.(string)
	if !ok {
		r.fail("parameter %q: %v is not a string", name, v)
		return def
	}

	return s
}

// RequiredString reads a string parameter that must be present.
func (r *Reader) RequiredString(name string) string {
	if _, ok := r.params[name]; !ok {
		r.fail("required parameter %q is missing", name)
		return ""
	}

	return r.String(name, "")
}

// RequiredStrings reads a list of strings that must be present. A single
// comma-separated string is accepted as well.
func (r *Reader) RequiredStrings(name string) []string {
	v, ok := r.params[name]
	if !ok {
		r.fail("required parameter %q is missing", name)
		return nil
	}

	switch list := v.(type) {
	case []string:
		return list
	case string:
		return strings.Split(list, ",")
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				r.fail("parameter %q: %v is not a string", name, item)
				return nil
			}

			out = append(out, s)
		}

		return out
	}

	r.fail("parameter %q: %v is not a list of strings", name, v)

	return nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
	case string:
		v = strings.TrimSpace(n)
	case bool:
		return 0, fmt.Errorf("%v is not an integer", n)
	}

	return cast.ToIntE(v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case string:
		v = strings.TrimSpace(n)
	case bool:
		return 0, fmt.Errorf("%v is not a number", n)
	}

	return cast.ToFloat64E(v)
}
