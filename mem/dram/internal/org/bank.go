// Package org describes the hierarchical organization of a DRAM channel.
package org

import "github.com/CMU-SAFARI/BreakHammer/config"

// Level names shared by every device.
const (
	LevelChannel   = "channel"
	LevelRank      = "rank"
	LevelBankGroup = "bankgroup"
	LevelBank      = "bank"
	LevelRow       = "row"
	LevelColumn    = "column"
)

// A LevelSource reports where each level sits in an address vector and how
// many elements it has.
type LevelSource interface {
	LevelIndex(name string) (int, bool)
	LevelSize(name string) int
}

// Organization holds the level indices and the counts needed to flatten a
// (rank, bankgroup, bank) tuple into one integer.
type Organization struct {
	RankLevel      int
	BankGroupLevel int
	BankLevel      int
	RowLevel       int
	ColumnLevel    int

	NumRanks         int
	NumBankGroups    int
	NumBanksPerGroup int
	NumRows          int
}

// New reads the organization from a level source. The rank, bank and row
// levels are required. A device without bank groups is treated as having one
// group per rank.
func New(src LevelSource) (Organization, error) {
	o := Organization{BankGroupLevel: -1, ColumnLevel: -1}

	var ok bool

	for _, l := range []struct {
		name string
		idx  *int
	}{
		{LevelRank, &o.RankLevel},
		{LevelBank, &o.BankLevel},
		{LevelRow, &o.RowLevel},
	} {
		*l.idx, ok = src.LevelIndex(l.name)
		if !ok {
			return o, config.NewConfigurationError(
				"Organization", "device has no %s level", l.name)
		}
	}

	if idx, ok := src.LevelIndex(LevelBankGroup); ok {
		o.BankGroupLevel = idx
	}

	if idx, ok := src.LevelIndex(LevelColumn); ok {
		o.ColumnLevel = idx
	}

	o.NumRanks = src.LevelSize(LevelRank)
	o.NumBanksPerGroup = src.LevelSize(LevelBank)
	o.NumRows = src.LevelSize(LevelRow)

	o.NumBankGroups = 1
	if o.BankGroupLevel >= 0 {
		o.NumBankGroups = src.LevelSize(LevelBankGroup)
	}

	if o.NumRanks <= 0 || o.NumBankGroups <= 0 ||
		o.NumBanksPerGroup <= 0 || o.NumRows <= 0 {
		return o, config.NewConfigurationError(
			"Organization", "level sizes must be positive")
	}

	return o, nil
}

// NumBanksPerRank returns the number of banks in one rank.
func (o Organization) NumBanksPerRank() int {
	return o.NumBankGroups * o.NumBanksPerGroup
}

// NumBanks returns the number of banks in the channel.
func (o Organization) NumBanks() int {
	return o.NumRanks * o.NumBanksPerRank()
}

// FlatBankID returns the index of the bank addressed by addrVec. The rank,
// bankgroup and bank levels must not be wildcards.
func (o Organization) FlatBankID(addrVec []int) int {
	id := addrVec[o.RankLevel] * o.NumBanksPerRank()

	if o.BankGroupLevel >= 0 {
		id += addrVec[o.BankGroupLevel] * o.NumBanksPerGroup
	}

	return id + addrVec[o.BankLevel]
}

// RankBanks returns the flat ids of every bank in the given rank.
func (o Organization) RankBanks(rank int) []int {
	n := o.NumBanksPerRank()
	ids := make([]int, n)

	for i := range ids {
		ids[i] = rank*n + i
	}

	return ids
}

// BankGroupBanks returns the flat ids of the banks with the given bank index
// in every bank group of the rank. These are the banks an RFMsb command
// covers.
func (o Organization) BankGroupBanks(rank, bank int) []int {
	ids := make([]int, 0, o.NumBankGroups)

	for g := 0; g < o.NumBankGroups; g++ {
		ids = append(ids,
			rank*o.NumBanksPerRank()+g*o.NumBanksPerGroup+bank)
	}

	return ids
}
