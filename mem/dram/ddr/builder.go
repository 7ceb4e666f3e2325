package ddr

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func init() {
	dram.RegisterDevice("DDR5", func(p config.Params) (dram.Device, error) {
		d, err := MakeBuilder().WithParams(p).Build("DDR5")
		if err != nil {
			return nil, err
		}

		return d, nil
	})
}

// Builder can build DDR5 devices.
type Builder struct {
	org    Organization
	timing Timing
	err    error
}

// MakeBuilder creates a builder with a DDR5-3200 single-rank channel of
// 8 bank groups with 4 banks each.
func MakeBuilder() Builder {
	return Builder{
		org: Organization{
			Channels:   1,
			Ranks:      1,
			BankGroups: 8,
			Banks:      4,
			Rows:       65536,
			Columns:    1024,
		},
		timing: Timing{
			TCKps: 625,
			TRCD:  24,
			TRP:   24,
			TRAS:  52,
			TRRD:  8,
			TCCD:  8,
			TRTP:  12,
			TWR:   48,
			TRFC:  410,
			TRFM:  205,
			TVRR:  76,
		},
	}
}

// WithOrganization sets the size of every level.
func (b Builder) WithOrganization(o Organization) Builder {
	b.org = o
	return b
}

// WithTiming sets the timing parameters.
func (b Builder) WithTiming(t Timing) Builder {
	b.timing = t
	return b
}

// WithParams overrides the organization and the timing with named
// parameters.
func (b Builder) WithParams(p config.Params) Builder {
	r := config.NewReader("DDR5", p)

	b.org = Organization{
		Channels:   r.Int("channels", b.org.Channels),
		Ranks:      r.Int("ranks", b.org.Ranks),
		BankGroups: r.Int("bankgroups", b.org.BankGroups),
		Banks:      r.Int("banks", b.org.Banks),
		Rows:       r.Int("rows", b.org.Rows),
		Columns:    r.Int("columns", b.org.Columns),
	}

	b.timing = Timing{
		TCKps: r.Int("tCK_ps", b.timing.TCKps),
		TRCD:  r.Int("tRCD", b.timing.TRCD),
		TRP:   r.Int("tRP", b.timing.TRP),
		TRAS:  r.Int("tRAS", b.timing.TRAS),
		TRRD:  r.Int("tRRD", b.timing.TRRD),
		TCCD:  r.Int("tCCD", b.timing.TCCD),
		TRTP:  r.Int("tRTP", b.timing.TRTP),
		TWR:   r.Int("tWR", b.timing.TWR),
		TRFC:  r.Int("tRFC", b.timing.TRFC),
		TRFM:  r.Int("tRFM", b.timing.TRFM),
		TVRR:  r.Int("tVRR", b.timing.TVRR),
	}

	b.err = r.Err()

	return b
}

// Build creates the device.
func (b Builder) Build(name string) (*Device, error) {
	if b.err != nil {
		return nil, b.err
	}

	for i, size := range b.org.sizes() {
		if size <= 0 {
			return nil, config.NewConfigurationError(name,
				"level %s must have a positive size, got %d",
				levelNames[i], size)
		}
	}

	if b.timing.TCKps <= 0 {
		return nil, config.NewConfigurationError(name,
			"tCK_ps must be positive, got %d", b.timing.TCKps)
	}

	numBanks := b.org.Ranks * b.org.BankGroups * b.org.Banks

	d := &Device{
		name:      name,
		org:       b.org,
		timing:    b.timing,
		tables:    b.timing.generateTables(),
		openRow:   make([]int, numBanks),
		bankReady: make([][numCommands]int64, numBanks),
		rankReady: make([][numCommands]int64, b.org.Ranks),
	}

	for i := range d.openRow {
		d.openRow[i] = closed
	}

	return d, nil
}
