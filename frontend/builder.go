package frontend

import (
	"math/rand/v2"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// Builder can build front ends.
type Builder struct {
	engine          sim.Engine
	freq            sim.Freq
	device          dram.Device
	sender          Sender
	channelID       int
	seed            uint64
	mshrs           int
	instsPerRequest int
	maxCycles       int64
	cores           []CoreSpec
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		seed:            1,
		mshrs:           16,
		instsPerRequest: 100,
	}
}

// WithEngine sets the engine that the front end uses.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the cores. By default, the cores run at the
// frequency of the device.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDevice sets the device whose address layout the requests follow.
func (b Builder) WithDevice(device dram.Device) Builder {
	b.device = device
	return b
}

// WithSender sets where the requests go.
func (b Builder) WithSender(s Sender) Builder {
	b.sender = s
	return b
}

// WithChannelID sets the channel the requests target.
func (b Builder) WithChannelID(id int) Builder {
	b.channelID = id
	return b
}

// WithSeed sets the seed of the random patterns.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithMSHRs sets the number of MSHRs of every core.
func (b Builder) WithMSHRs(n int) Builder {
	b.mshrs = n
	return b
}

// WithInstsPerRequest sets the number of instructions between two memory
// requests of a core.
func (b Builder) WithInstsPerRequest(n int) Builder {
	b.instsPerRequest = n
	return b
}

// WithMaxCycles stops the cores after a number of cycles.
func (b Builder) WithMaxCycles(n int64) Builder {
	b.maxCycles = n
	return b
}

// WithCore adds a core.
func (b Builder) WithCore(spec CoreSpec) Builder {
	b.cores = append(b.cores[:len(b.cores):len(b.cores)], spec)
	return b
}

// WithConfig applies a front end configuration.
func (b Builder) WithConfig(cfg config.FrontendConfig) (Builder, error) {
	b.seed = cfg.Seed
	b.mshrs = cfg.MSHRs
	b.instsPerRequest = cfg.InstsPerRequest

	for i, c := range cfg.Cores {
		p, err := ParsePattern(c.Pattern)
		if err != nil {
			return b, config.NewConfigurationError("Frontend",
				"core %d: %v", i, err)
		}

		b = b.WithCore(CoreSpec{
			Pattern:   p,
			Rows:      c.Rows,
			Bank:      c.Bank,
			WriteRate: c.WriteRate,
			Requests:  c.Requests,

			InstsPerRequest: c.InstsPerRequest,
		})
	}

	return b, nil
}

// Build creates the front end.
func (b Builder) Build(name string) (*Comp, error) {
	if b.engine == nil {
		return nil, config.NewConfigurationError(name, "engine is required")
	}

	if b.device == nil {
		return nil, config.NewConfigurationError(name, "device is required")
	}

	if len(b.cores) == 0 {
		return nil, config.NewConfigurationError(name, "no core configured")
	}

	if b.mshrs <= 0 {
		return nil, config.NewConfigurationError(name,
			"mshrs must be positive, got %d", b.mshrs)
	}

	mapper, err := newAddrMapper(b.device, b.channelID)
	if err != nil {
		return nil, config.NewConfigurationError(name, "%v", err)
	}

	freq := b.freq
	if freq == 0 {
		freq = b.device.Freq()
	}

	c := &Comp{
		sender:          b.sender,
		mapper:          mapper,
		llc:             NewLLC(len(b.cores), b.mshrs),
		instsPerRequest: max(b.instsPerRequest, 0),
		maxCycles:       b.maxCycles,
	}

	for i, spec := range b.cores {
		core, err := b.buildCore(name, i, spec, mapper)
		if err != nil {
			return nil, err
		}

		c.cores = append(c.cores, core)
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, freq, c)
	c.AddMiddleware(&middleware{Comp: c})

	return c, nil
}

func (b Builder) buildCore(
	name string,
	id int,
	spec CoreSpec,
	mapper addrMapper,
) (*core, error) {
	if spec.Bank < 0 || spec.Bank >= mapper.totalBanks() {
		return nil, config.NewConfigurationError(name,
			"core %d: bank %d out of range", id, spec.Bank)
	}

	if len(spec.Rows) == 0 {
		switch spec.Pattern {
		case PatternHammer:
			spec.Rows = []int{1, 3}
		default:
			spec.Rows = []int{0}
		}
	}

	for _, r := range spec.Rows {
		if r < 0 || r >= mapper.numRows {
			return nil, config.NewConfigurationError(name,
				"core %d: row %d out of range", id, r)
		}
	}

	rng := rand.New(rand.NewPCG(b.seed, uint64(id)))

	return &core{
		id:   id,
		spec: spec,
		rng:  rng,
		gen: generator{
			pattern:  spec.Pattern,
			rng:      rng,
			numBanks: mapper.totalBanks(),
			numRows:  mapper.numRows,
			numCols:  mapper.numCols,
			bank:     spec.Bank,
			rows:     spec.Rows,
		},
	}, nil
}
