package frontend

import (
	"fmt"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

// addrMapper turns a location into the address vector of a device.
type addrMapper struct {
	channel int

	numLevels int
	channelLv int
	rankLv    int
	groupLv   int
	bankLv    int
	rowLv     int
	columnLv  int

	numGroups int
	numBanks  int
	numRanks  int
	numRows   int
	numCols   int
}

func newAddrMapper(device dram.Device, channel int) (addrMapper, error) {
	m := addrMapper{channel: channel, channelLv: -1, groupLv: -1, columnLv: -1}

	required := []struct {
		name string
		lv   *int
	}{
		{"rank", &m.rankLv},
		{"bank", &m.bankLv},
		{"row", &m.rowLv},
	}

	for _, r := range required {
		idx, ok := device.LevelIndex(r.name)
		if !ok {
			return m, fmt.Errorf("device %s has no %s level",
				device.Name(), r.name)
		}

		*r.lv = idx
	}

	optional := []struct {
		name string
		lv   *int
	}{
		{"channel", &m.channelLv},
		{"bankgroup", &m.groupLv},
		{"column", &m.columnLv},
	}

	for _, o := range optional {
		if idx, ok := device.LevelIndex(o.name); ok {
			*o.lv = idx
		}
	}

	for _, lv := range []int{
		m.channelLv, m.rankLv, m.groupLv, m.bankLv, m.rowLv, m.columnLv,
	} {
		m.numLevels = max(m.numLevels, lv+1)
	}

	m.numRanks = device.LevelSize("rank")
	m.numBanks = device.LevelSize("bank")
	m.numRows = device.LevelSize("row")

	m.numGroups = 1
	if m.groupLv >= 0 {
		m.numGroups = device.LevelSize("bankgroup")
	}

	m.numCols = 1
	if m.columnLv >= 0 {
		m.numCols = device.LevelSize("column")
	}

	return m, nil
}

func (m addrMapper) banksPerRank() int {
	return m.numGroups * m.numBanks
}

func (m addrMapper) totalBanks() int {
	return m.numRanks * m.banksPerRank()
}

func (m addrMapper) addrVec(loc location) []int {
	addr := make([]int, m.numLevels)
	for i := range addr {
		addr[i] = dram.AddrAll
	}

	if m.channelLv >= 0 {
		addr[m.channelLv] = m.channel
	}

	addr[m.rankLv] = loc.bank / m.banksPerRank()

	if m.groupLv >= 0 {
		addr[m.groupLv] = (loc.bank / m.numBanks) % m.numGroups
	}

	addr[m.bankLv] = loc.bank % m.numBanks
	addr[m.rowLv] = loc.row

	if m.columnLv >= 0 {
		addr[m.columnLv] = loc.column
	}

	return addr
}
