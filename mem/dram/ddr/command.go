// Package ddr provides a DDR5 device model with open-row bank state and
// per-command timing constraints.
package ddr

import (
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/org"
)

// Commands of the device.
const (
	CmdACT = iota
	CmdPRE
	CmdPREA
	CmdRD
	CmdWR
	CmdREFab
	CmdRFMab
	CmdRFMsb
	CmdVRR
	numCommands
)

// Positions of the levels in an address vector.
const (
	levelChannel = iota
	levelRank
	levelBankGroup
	levelBank
	levelRow
	levelColumn
	numLevels
)

var levelNames = [numLevels]string{
	org.LevelChannel,
	org.LevelRank,
	org.LevelBankGroup,
	org.LevelBank,
	org.LevelRow,
	org.LevelColumn,
}

type commandInfo struct {
	name  string
	meta  dram.CommandMeta
	scope int
}

var commands = [numCommands]commandInfo{
	CmdACT:   {"ACT", dram.CommandMeta{IsOpening: true}, levelRow},
	CmdPRE:   {"PRE", dram.CommandMeta{IsClosing: true}, levelBank},
	CmdPREA:  {"PREA", dram.CommandMeta{IsClosing: true}, levelRank},
	CmdRD:    {"RD", dram.CommandMeta{IsAccessing: true}, levelColumn},
	CmdWR:    {"WR", dram.CommandMeta{IsAccessing: true}, levelColumn},
	CmdREFab: {"REFab", dram.CommandMeta{IsRefreshing: true}, levelRank},
	CmdRFMab: {"RFMab", dram.CommandMeta{IsRefreshing: true}, levelRank},
	CmdRFMsb: {"RFMsb", dram.CommandMeta{IsRefreshing: true}, levelBank},
	CmdVRR:   {"VRR", dram.CommandMeta{IsRefreshing: true}, levelRow},
}

// Organization is the number of elements of each level.
type Organization struct {
	Channels   int
	Ranks      int
	BankGroups int
	Banks      int
	Rows       int
	Columns    int
}

func (o Organization) sizes() [numLevels]int {
	return [numLevels]int{
		o.Channels, o.Ranks, o.BankGroups, o.Banks, o.Rows, o.Columns,
	}
}
