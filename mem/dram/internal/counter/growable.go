package counter

// Growable is a dense counter array indexed by small non-negative integers.
// Accessing an index beyond the current size extends the array with zeros.
type Growable struct {
	values []uint64
}

// NewGrowable creates a counter array with n zeroed slots.
func NewGrowable(n int) *Growable {
	return &Growable{values: make([]uint64, n)}
}

func (g *Growable) grow(i int) {
	if i < 0 {
		panic("negative counter index")
	}

	if i < len(g.values) {
		return
	}

	g.values = append(g.values, make([]uint64, i+1-len(g.values))...)
}

// Get returns the value at index i.
func (g *Growable) Get(i int) uint64 {
	g.grow(i)

	return g.values[i]
}

// Increment adds n to the value at index i.
func (g *Growable) Increment(i int, n uint64) {
	g.grow(i)
	g.values[i] += n
}

// Set overwrites the value at index i.
func (g *Growable) Set(i int, v uint64) {
	g.grow(i)
	g.values[i] = v
}

// Size returns the current extent of the array.
func (g *Growable) Size() int {
	return len(g.values)
}

// Sum returns the total of all values.
func (g *Growable) Sum() uint64 {
	var sum uint64
	for _, v := range g.values {
		sum += v
	}

	return sum
}

// Clear zeroes every slot without shrinking the array.
func (g *Growable) Clear() {
	clear(g.values)
}
