// Package counter provides the per-thread counters shared by the mitigation
// and throttling plugins.
package counter

// Windowed is a per-key counter that keeps a fixed number of windows. Exactly
// one window is active at a time. Rotating the windows does not clear the
// inactive ones.
type Windowed struct {
	windows []map[int]float64
	active  int
}

// NewWindowed creates a windowed counter with w empty windows.
func NewWindowed(w int) *Windowed {
	c := &Windowed{}
	c.SetWindowSize(w)

	return c
}

// SetWindowSize resets the counter to w empty windows.
func (c *Windowed) SetWindowSize(w int) {
	if w < 1 {
		w = 1
	}

	c.windows = make([]map[int]float64, w)
	for i := range c.windows {
		c.windows[i] = make(map[int]float64)
	}

	c.active = 0
}

// WindowSize returns the number of windows.
func (c *Windowed) WindowSize() int {
	return len(c.windows)
}

// Clear removes all keys from every window.
func (c *Windowed) Clear() {
	for i := range c.windows {
		clear(c.windows[i])
	}
}

// OnNewWindow makes the next window active.
func (c *Windowed) OnNewWindow() {
	c.active = (c.active + 1) % len(c.windows)
}

// IncrementAll adds amount to key in every window.
func (c *Windowed) IncrementAll(key int, amount float64) {
	for _, w := range c.windows {
		w[key] += amount
	}
}

// IncrementActive adds amount to key in the active window only.
func (c *Windowed) IncrementActive(key int, amount float64) {
	c.windows[c.active][key] += amount
}

// ReadActive returns the value of key in the active window. Keys that were
// never incremented read as zero.
func (c *Windowed) ReadActive(key int) float64 {
	return c.windows[c.active][key]
}

// ActiveCounter returns the map of the active window.
func (c *Windowed) ActiveCounter() map[int]float64 {
	return c.windows[c.active]
}

// Counters returns all the windows, in storage order.
func (c *Windowed) Counters() []map[int]float64 {
	return c.windows
}
