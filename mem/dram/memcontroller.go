package dram

import (
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/org"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// HookPosCommandIssue marks the issue of a command. The item is the request
// and the detail is the command id.
var HookPosCommandIssue = &sim.HookPos{Name: "CommandIssue"}

// HookPosReqComplete marks the completion of a request.
var HookPosReqComplete = &sim.HookPos{Name: "ReqComplete"}

// A RequestSource tells the controller whether more requests may arrive.
type RequestSource interface {
	Done() bool
}

// Stats summarizes the activity of a controller.
type Stats struct {
	Cycles      int64
	Reads       uint64
	Writes      uint64
	Activations uint64
	Refreshes   uint64
	RFMs        uint64
	SkippedRFMs uint64

	// TotalReadLatency is the sum of the cycles between the arrival and the
	// completion of every read.
	TotalReadLatency uint64

	// ServedPerSource counts completed reads and writes by source.
	ServedPerSource map[int]uint64
}

// Comp is a memory controller of one channel. It serves the requests in its
// buffers and lets its plugins observe every cycle.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	device    Device
	channelID int
	org       org.Organization
	scheduler Scheduler
	plugins   []Plugin
	frontend  any
	source    RequestSource
	safety    BankSafetyOracle

	buffer   *ReqBuffer
	priority *ReqBuffer
	overflow []*Request

	clk             int64
	maxCycles       int64
	refreshInterval int
	rfmThreshold    int
	bankActs        []int

	stats Stats
}

// Tick runs one cycle of the controller.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// Send accepts a request from the front end. It returns false if the buffer
// is full.
func (c *Comp) Send(req *Request) bool {
	req.Arrive = c.clk
	req.FinalCommand = c.device.FinalCommand(req.Type, req.AddrVec)
	req.Command = req.FinalCommand

	if !c.buffer.Enqueue(req) {
		return false
	}

	c.TickLater()

	return true
}

// Plugins returns the plugins in registration order.
func (c *Comp) Plugins() []Plugin {
	return c.plugins
}

// Device returns the device the controller drives.
func (c *Comp) Device() Device {
	return c.device
}

// Scheduler returns the scheduling policy.
func (c *Comp) Scheduler() Scheduler {
	return c.scheduler
}

// ChannelID returns the id of the channel.
func (c *Comp) ChannelID() int {
	return c.channelID
}

// Clock returns the number of cycles run so far.
func (c *Comp) Clock() int64 {
	return c.clk
}

// Organization returns the organization of the device.
func (c *Comp) Organization() org.Organization {
	return c.org
}

// QueueLength returns the number of buffered read and write requests.
func (c *Comp) QueueLength() int {
	return c.buffer.Len()
}

// Stats returns a copy of the statistics.
func (c *Comp) Stats() Stats {
	s := c.stats
	s.ServedPerSource = make(map[int]uint64, len(c.stats.ServedPerSource))

	for k, v := range c.stats.ServedPerSource {
		s.ServedPerSource[k] = v
	}

	return s
}

// Finalize lets the scheduler and the plugins act on the end of the
// simulation.
func (c *Comp) Finalize() {
	if f, ok := c.scheduler.(Finalizer); ok {
		f.Finalize()
	}

	for _, p := range c.plugins {
		if f, ok := p.(Finalizer); ok {
			f.Finalize()
		}
	}
}

type middleware struct {
	*Comp
}

// Tick runs the plugins and issues at most one command.
func (m *middleware) Tick() bool {
	if !m.hasWork() {
		return false
	}

	m.clk++
	m.stats.Cycles = m.clk

	m.device.Tick()
	m.injectRefresh()
	m.drainOverflow()
	m.scheduler.Tick()

	req, buf := m.pickRequest()

	found := req != nil && m.device.CheckReady(req.Command, req.AddrVec)
	if !found {
		req = nil
	}

	for _, p := range m.plugins {
		p.Update(found, req)
	}

	if found {
		m.issue(req, buf)
	}

	return true
}

func (m *middleware) hasWork() bool {
	if m.maxCycles > 0 && m.clk >= m.maxCycles {
		return false
	}

	if m.buffer.Len() > 0 || m.priority.Len() > 0 || len(m.overflow) > 0 {
		return true
	}

	return m.source != nil && !m.source.Done()
}

// pickRequest serves maintenance requests before any read or write.
func (m *middleware) pickRequest() (*Request, *ReqBuffer) {
	if m.priority.Len() > 0 {
		return m.scheduler.GetBestRequest(m.priority), m.priority
	}

	return m.scheduler.GetBestRequest(m.buffer), m.buffer
}

func (m *middleware) injectRefresh() {
	if m.refreshInterval <= 0 || m.clk%int64(m.refreshInterval) != 0 {
		return
	}

	for rank := 0; rank < m.org.NumRanks; rank++ {
		addr := m.wildcardAddr()
		addr[m.org.RankLevel] = rank

		m.enqueueMaintenance(&Request{
			AddrVec:  addr,
			Type:     ReqRefresh,
			SourceID: -1,
		})
	}
}

func (m *middleware) wildcardAddr() []int {
	addr := make([]int, m.numLevels())
	for i := range addr {
		addr[i] = AddrAll
	}

	if idx, ok := m.device.LevelIndex(org.LevelChannel); ok {
		addr[idx] = m.channelID
	}

	return addr
}

func (m *middleware) numLevels() int {
	n := m.org.RowLevel + 1
	if m.org.ColumnLevel >= n {
		n = m.org.ColumnLevel + 1
	}

	return n
}

func (m *middleware) enqueueMaintenance(req *Request) {
	req.Arrive = m.clk
	req.FinalCommand = m.device.FinalCommand(req.Type, req.AddrVec)
	req.Command = req.FinalCommand

	if !m.priority.Enqueue(req) {
		m.overflow = append(m.overflow, req)
	}
}

func (m *middleware) drainOverflow() {
	for len(m.overflow) > 0 && m.priority.Enqueue(m.overflow[0]) {
		m.overflow = m.overflow[1:]
	}
}

func (m *middleware) issue(req *Request, buf *ReqBuffer) {
	m.device.Issue(req.Command, req.AddrVec)
	m.InvokeHook(sim.HookCtx{
		Domain: m.Comp,
		Pos:    HookPosCommandIssue,
		Item:   req,
		Detail: req.Command,
	})

	if m.device.CommandMeta(req.Command).IsOpening {
		m.countActivation(req)
	}

	if req.Command != req.FinalCommand {
		return
	}

	buf.Remove(req)
	req.Depart = m.clk
	m.countServed(req)

	m.InvokeHook(sim.HookCtx{
		Domain: m.Comp,
		Pos:    HookPosReqComplete,
		Item:   req,
	})

	if req.Callback != nil {
		req.Callback(req)
	}
}

func (m *middleware) countServed(req *Request) {
	switch req.Type {
	case ReqRead:
		m.stats.Reads++
		m.stats.TotalReadLatency += uint64(req.Depart - req.Arrive)
		m.stats.ServedPerSource[req.SourceID]++
	case ReqWrite:
		m.stats.Writes++
		m.stats.ServedPerSource[req.SourceID]++
	case ReqRefresh:
		m.stats.Refreshes++
	case ReqRFM:
		m.stats.RFMs++
	}
}

// countActivation issues an RFM to a bank once it has received rfmThreshold
// activations since its last RFM.
func (m *middleware) countActivation(req *Request) {
	m.stats.Activations++

	if m.rfmThreshold <= 0 {
		return
	}

	bank := m.org.FlatBankID(req.AddrVec)

	m.bankActs[bank]++
	if m.bankActs[bank] < m.rfmThreshold {
		return
	}

	m.bankActs[bank] = 0

	if m.safety != nil && m.safety.IsBankSafe(bank) {
		m.stats.SkippedRFMs++
		return
	}

	addr := make([]int, len(req.AddrVec))
	copy(addr, req.AddrVec)
	addr[m.org.RowLevel] = AddrAll

	if m.org.ColumnLevel >= 0 {
		addr[m.org.ColumnLevel] = AddrAll
	}

	logrus.WithFields(logrus.Fields{
		"controller": m.Name(),
		"bank":       bank,
		"source":     req.SourceID,
	}).Debug("injecting RFM")

	m.enqueueMaintenance(&Request{
		AddrVec:  addr,
		Type:     ReqRFM,
		SourceID: req.SourceID,
	})
}
