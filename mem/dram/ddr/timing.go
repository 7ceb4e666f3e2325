package ddr

// Timing holds the timing parameters in cycles. TCKps is the clock period in
// picoseconds.
type Timing struct {
	TCKps int

	TRCD int
	TRP  int
	TRAS int
	TRRD int
	TCCD int
	TRTP int
	TWR  int
	TRFC int
	TRFM int
	TVRR int
}

// A TimeTableEntry is the minimum number of cycles between a command and a
// following one.
type TimeTableEntry struct {
	NextCmd           int
	MinCycleInBetween int
}

// A TimeTable lists the constraints that each command puts on the following
// commands.
type TimeTable [numCommands][]TimeTableEntry

// timeTables holds the constraints of the banks a command covers and of the
// rank the command is issued to.
type timeTables struct {
	SameBank TimeTable
	SameRank TimeTable
}

func allCommands(cycles int) []TimeTableEntry {
	entries := make([]TimeTableEntry, numCommands)
	for i := range entries {
		entries[i] = TimeTableEntry{NextCmd: i, MinCycleInBetween: cycles}
	}

	return entries
}

func (t Timing) generateTables() timeTables {
	var tt timeTables

	tRC := t.TRAS + t.TRP

	tt.SameBank[CmdACT] = []TimeTableEntry{
		{CmdRD, t.TRCD},
		{CmdWR, t.TRCD},
		{CmdPRE, t.TRAS},
		{CmdPREA, t.TRAS},
		{CmdACT, tRC},
		{CmdVRR, tRC},
		{CmdREFab, tRC},
		{CmdRFMab, tRC},
		{CmdRFMsb, tRC},
	}

	afterPrecharge := []TimeTableEntry{
		{CmdACT, t.TRP},
		{CmdVRR, t.TRP},
		{CmdREFab, t.TRP},
		{CmdRFMab, t.TRP},
		{CmdRFMsb, t.TRP},
	}
	tt.SameBank[CmdPRE] = afterPrecharge
	tt.SameBank[CmdPREA] = afterPrecharge

	tt.SameBank[CmdRD] = []TimeTableEntry{
		{CmdRD, t.TCCD},
		{CmdWR, t.TCCD},
		{CmdPRE, t.TRTP},
		{CmdPREA, t.TRTP},
	}

	tt.SameBank[CmdWR] = []TimeTableEntry{
		{CmdRD, t.TCCD},
		{CmdWR, t.TCCD},
		{CmdPRE, t.TWR},
		{CmdPREA, t.TWR},
	}

	tt.SameBank[CmdREFab] = allCommands(t.TRFC)
	tt.SameBank[CmdRFMab] = allCommands(t.TRFM)
	tt.SameBank[CmdRFMsb] = allCommands(t.TRFM)
	tt.SameBank[CmdVRR] = allCommands(t.TVRR)

	tt.SameRank[CmdACT] = []TimeTableEntry{
		{CmdACT, t.TRRD},
	}

	tt.SameRank[CmdRD] = []TimeTableEntry{
		{CmdRD, t.TCCD},
		{CmdWR, t.TCCD},
	}

	tt.SameRank[CmdWR] = []TimeTableEntry{
		{CmdRD, t.TCCD},
		{CmdWR, t.TCCD},
	}

	return tt
}
