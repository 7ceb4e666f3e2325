package ddr

import (
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

const closed = -1

// Device is a DDR5 channel. Banks are identified by their flat id, which
// counts bank groups and banks within a rank and ranks within the channel.
type Device struct {
	name   string
	org    Organization
	timing Timing
	tables timeTables
	clk    int64

	openRow   []int
	bankReady [][numCommands]int64
	rankReady [][numCommands]int64
}

// Name returns the name of the device.
func (d *Device) Name() string {
	return d.name
}

// Freq returns the command clock frequency.
func (d *Device) Freq() sim.Freq {
	return sim.FreqFromPeriodPS(float64(d.timing.TCKps))
}

// ClockPeriodPS returns the command clock period in picoseconds.
func (d *Device) ClockPeriodPS() int {
	return d.timing.TCKps
}

// Organization returns the size of every level.
func (d *Device) Organization() Organization {
	return d.org
}

// Clock returns the number of cycles ticked.
func (d *Device) Clock() int64 {
	return d.clk
}

// CommandID returns the id of a command by name.
func (d *Device) CommandID(name string) (int, bool) {
	for id, c := range commands {
		if c.name == name {
			return id, true
		}
	}

	return -1, false
}

// CommandName returns the name of a command.
func (d *Device) CommandName(cmd int) string {
	if cmd < 0 || cmd >= numCommands {
		return "UNKNOWN"
	}

	return commands[cmd].name
}

// NumCommands returns the number of commands.
func (d *Device) NumCommands() int {
	return numCommands
}

// CommandMeta returns what a command does.
func (d *Device) CommandMeta(cmd int) dram.CommandMeta {
	return commands[cmd].meta
}

// CommandScope returns the level a command addresses.
func (d *Device) CommandScope(cmd int) int {
	return commands[cmd].scope
}

// LevelIndex returns the position of a level in an address vector.
func (d *Device) LevelIndex(name string) (int, bool) {
	for i, n := range levelNames {
		if n == name {
			return i, true
		}
	}

	return -1, false
}

// LevelSize returns the number of elements of a level.
func (d *Device) LevelSize(name string) int {
	i, ok := d.LevelIndex(name)
	if !ok {
		return -1
	}

	return d.org.sizes()[i]
}

// FinalCommand returns the command that completes a request.
func (d *Device) FinalCommand(t dram.RequestType, addrVec []int) int {
	switch t {
	case dram.ReqRead:
		return CmdRD
	case dram.ReqWrite:
		return CmdWR
	case dram.ReqRefresh:
		return CmdREFab
	case dram.ReqRFM:
		if addrVec[levelBank] == dram.AddrAll {
			return CmdRFMab
		}

		return CmdRFMsb
	case dram.ReqVictimRowRefresh:
		return CmdVRR
	}

	logrus.Panicf("request type %s has no command on %s", t, d.name)

	return -1
}

// PrerequisiteCommand returns the command to issue next for finalCmd.
func (d *Device) PrerequisiteCommand(finalCmd int, addrVec []int) int {
	switch finalCmd {
	case CmdRD, CmdWR:
		row := d.openRow[d.flatBank(addrVec)]
		switch row {
		case closed:
			return CmdACT
		case addrVec[levelRow]:
			return finalCmd
		default:
			return CmdPRE
		}
	case CmdVRR:
		if d.openRow[d.flatBank(addrVec)] != closed {
			return CmdPRE
		}
	case CmdREFab, CmdRFMab, CmdRFMsb:
		for _, b := range d.coveredBanks(finalCmd, addrVec) {
			if d.openRow[b] != closed {
				return CmdPREA
			}
		}
	}

	return finalCmd
}

// CheckReady returns true if cmd can be issued in the current cycle.
func (d *Device) CheckReady(cmd int, addrVec []int) bool {
	if !d.stateAllows(cmd, addrVec) {
		return false
	}

	if d.clk < d.rankReady[addrVec[levelRank]][cmd] {
		return false
	}

	for _, b := range d.coveredBanks(cmd, addrVec) {
		if d.clk < d.bankReady[b][cmd] {
			return false
		}
	}

	return true
}

func (d *Device) stateAllows(cmd int, addrVec []int) bool {
	switch cmd {
	case CmdACT:
		return d.openRow[d.flatBank(addrVec)] == closed
	case CmdRD, CmdWR:
		return d.openRow[d.flatBank(addrVec)] == addrVec[levelRow]
	}

	return true
}

// Issue applies a command to the bank state and the timing.
func (d *Device) Issue(cmd int, addrVec []int) {
	banks := d.coveredBanks(cmd, addrVec)

	switch cmd {
	case CmdACT:
		d.openRow[banks[0]] = addrVec[levelRow]
	case CmdPRE, CmdPREA:
		for _, b := range banks {
			d.openRow[b] = closed
		}
	}

	for _, b := range banks {
		for _, e := range d.tables.SameBank[cmd] {
			d.delay(&d.bankReady[b][e.NextCmd], e.MinCycleInBetween)
		}
	}

	rank := addrVec[levelRank]
	for _, e := range d.tables.SameRank[cmd] {
		d.delay(&d.rankReady[rank][e.NextCmd], e.MinCycleInBetween)
	}
}

func (d *Device) delay(ready *int64, cycles int) {
	*ready = max(*ready, d.clk+int64(cycles))
}

// Tick advances the clock.
func (d *Device) Tick() {
	d.clk++
}

// OpenRow returns the open row of a bank, or -1 if the bank is closed.
func (d *Device) OpenRow(flatBankID int) int {
	return d.openRow[flatBankID]
}

func (d *Device) banksPerRank() int {
	return d.org.BankGroups * d.org.Banks
}

func (d *Device) flatBank(addrVec []int) int {
	return addrVec[levelRank]*d.banksPerRank() +
		addrVec[levelBankGroup]*d.org.Banks +
		addrVec[levelBank]
}

// coveredBanks returns the flat ids of the banks a command acts on. Rank
// commands and RFMab cover the whole rank. RFMsb covers the bank of the same
// index in every bank group.
func (d *Device) coveredBanks(cmd int, addrVec []int) []int {
	rank := addrVec[levelRank]
	base := rank * d.banksPerRank()

	switch {
	case commands[cmd].scope == levelRank:
		banks := make([]int, d.banksPerRank())
		for i := range banks {
			banks[i] = base + i
		}

		return banks
	case cmd == CmdRFMsb:
		banks := make([]int, d.org.BankGroups)
		for g := range banks {
			banks[g] = base + g*d.org.Banks + addrVec[levelBank]
		}

		return banks
	}

	return []int{d.flatBank(addrVec)}
}
