// Package frontend provides a synthetic multi-core front end that feeds a
// memory controller.
package frontend

import (
	"math/rand/v2"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// A Sender accepts memory requests.
type Sender interface {
	Send(req *dram.Request) bool
}

// CoreSpec describes the traffic of one core.
type CoreSpec struct {
	Pattern   Pattern
	Rows      []int
	Bank      int
	WriteRate float64

	// Requests is the number of requests to issue. Zero or less means no
	// limit.
	Requests int

	// InstsPerRequest is the gap between two requests of this core. Zero
	// or less uses the front end setting.
	InstsPerRequest int
}

type core struct {
	id   int
	spec CoreSpec
	gen  generator
	rng  *rand.Rand

	gap       int
	issued    uint64
	completed uint64
	insts     uint64
	cycles    uint64
}

func (c *core) exhausted() bool {
	return c.spec.Requests > 0 && c.issued >= uint64(c.spec.Requests)
}

func (c *core) done() bool {
	return c.spec.Requests > 0 && c.completed >= uint64(c.spec.Requests)
}

// Comp is the front end. Every core retires one instruction per cycle and
// issues a memory request after every InstsPerRequest instructions. A core
// stalls while it has no free MSHR.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	sender          Sender
	mapper          addrMapper
	llc             *LLC
	cores           []*core
	instsPerRequest int

	clk       int64
	maxCycles int64
}

// Tick runs one cycle of every core.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// SetSender connects the front end to a memory controller.
func (c *Comp) SetSender(s Sender) {
	c.sender = s
}

// LLC returns the last-level cache.
func (c *Comp) LLC() *LLC {
	return c.llc
}

// NumCores returns the number of cores.
func (c *Comp) NumCores() int {
	return len(c.cores)
}

// AddBlacklist limits the misses of a core.
func (c *Comp) AddBlacklist(core int) {
	c.llc.AddBlacklist(core)
}

// EraseBlacklist removes the limit of a core.
func (c *Comp) EraseBlacklist(core int) {
	c.llc.EraseBlacklist(core)
}

// BlacklistMaxMSHRs returns the MSHR limit of a core while blacklisted.
func (c *Comp) BlacklistMaxMSHRs(core int) int {
	return c.llc.BlacklistMaxMSHRs(core)
}

// SetBlacklistMaxMSHRs sets the MSHR limit of a core while blacklisted.
func (c *Comp) SetBlacklistMaxMSHRs(core, n int) {
	c.llc.SetBlacklistMaxMSHRs(core, n)
}

// CoreProgress returns the instructions retired and the cycles run by a
// core.
func (c *Comp) CoreProgress(core int) (insts, cycles uint64) {
	return c.cores[core].insts, c.cores[core].cycles
}

// Completed returns the number of requests of a core that were served.
func (c *Comp) Completed(core int) uint64 {
	return c.cores[core].completed
}

// Clock returns the number of cycles run.
func (c *Comp) Clock() int64 {
	return c.clk
}

// Done tells whether every core has all its requests served. A front end
// with a core without request limit is never done.
func (c *Comp) Done() bool {
	for _, core := range c.cores {
		if !core.done() {
			return false
		}
	}

	return true
}

type middleware struct {
	*Comp
}

func (m *middleware) Tick() bool {
	if m.Done() || (m.maxCycles > 0 && m.clk >= m.maxCycles) {
		return false
	}

	m.clk++

	for _, c := range m.cores {
		m.tickCore(c)
	}

	return true
}

func (m *middleware) tickCore(c *core) {
	if c.done() {
		return
	}

	c.cycles++

	if c.gap > 0 {
		c.gap--
		c.insts++

		return
	}

	if c.exhausted() || !m.llc.canAllocate(c.id) {
		return
	}

	req := m.makeRequest(c)
	if !m.sender.Send(req) {
		return
	}

	m.llc.allocate(c.id)
	c.issued++
	c.insts++
	c.gap = m.instsPerRequest

	if c.spec.InstsPerRequest > 0 {
		c.gap = c.spec.InstsPerRequest
	}
}

func (m *middleware) makeRequest(c *core) *dram.Request {
	reqType := dram.ReqRead
	if c.spec.WriteRate > 0 && c.rng.Float64() < c.spec.WriteRate {
		reqType = dram.ReqWrite
	}

	return &dram.Request{
		AddrVec:  m.mapper.addrVec(c.gen.next()),
		Type:     reqType,
		SourceID: c.id,
		Callback: func(*dram.Request) {
			m.llc.release(c.id)
			c.completed++
		},
	}
}
