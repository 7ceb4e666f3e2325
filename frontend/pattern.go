package frontend

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Pattern is the access pattern of a core.
type Pattern int

// Access patterns.
const (
	// PatternRandom accesses random banks, rows and columns.
	PatternRandom Pattern = iota

	// PatternHammer alternates between a set of rows of one bank.
	PatternHammer

	// PatternStream walks the columns of consecutive rows of one bank.
	PatternStream
)

// ParsePattern converts a pattern name to a Pattern.
func ParsePattern(name string) (Pattern, error) {
	switch strings.ToLower(name) {
	case "", "random":
		return PatternRandom, nil
	case "hammer":
		return PatternHammer, nil
	case "stream":
		return PatternStream, nil
	}

	return 0, fmt.Errorf("unknown access pattern %q", name)
}

func (p Pattern) String() string {
	switch p {
	case PatternRandom:
		return "random"
	case PatternHammer:
		return "hammer"
	case PatternStream:
		return "stream"
	}

	return fmt.Sprintf("Pattern(%d)", int(p))
}

// location is where a request goes within a channel.
type location struct {
	bank   int
	row    int
	column int
}

// generator produces the locations of the requests of one core.
type generator struct {
	pattern Pattern
	rng     *rand.Rand

	numBanks int
	numRows  int
	numCols  int

	bank int
	rows []int
	n    int
}

func (g *generator) next() location {
	defer func() { g.n++ }()

	switch g.pattern {
	case PatternHammer:
		return location{
			bank:   g.bank,
			row:    g.rows[g.n%len(g.rows)],
			column: 0,
		}
	case PatternStream:
		return location{
			bank:   g.bank,
			row:    (g.rows[0] + g.n/g.numCols) % g.numRows,
			column: g.n % g.numCols,
		}
	}

	return location{
		bank:   g.rng.IntN(g.numBanks),
		row:    g.rng.IntN(g.numRows),
		column: g.rng.IntN(g.numCols),
	}
}
