package dram

import "github.com/CMU-SAFARI/BreakHammer/sim"

// CommandMeta describes what a command does to the device.
type CommandMeta struct {
	IsOpening    bool
	IsClosing    bool
	IsAccessing  bool
	IsRefreshing bool
}

// A Device models the state and timing of the DRAM ranks of one channel.
type Device interface {
	sim.Named

	// Freq returns the command clock frequency.
	Freq() sim.Freq

	// ClockPeriodPS returns the command clock period in picoseconds.
	ClockPeriodPS() int

	// CommandID returns the id of the named command, if the device has it.
	CommandID(name string) (int, bool)
	CommandName(cmd int) string
	NumCommands() int
	CommandMeta(cmd int) CommandMeta

	// CommandScope returns the level index that a command addresses.
	CommandScope(cmd int) int

	// LevelIndex returns the position of the named level in an address
	// vector.
	LevelIndex(name string) (int, bool)

	// LevelSize returns the number of elements of the named level, or -1 if
	// the device has no such level.
	LevelSize(name string) int

	// FinalCommand returns the command that completes a request of the given
	// type.
	FinalCommand(t RequestType, addrVec []int) int

	// PrerequisiteCommand returns the command to issue next in order to
	// eventually issue finalCmd.
	PrerequisiteCommand(finalCmd int, addrVec []int) int

	// CheckReady returns true if cmd can be issued in the current cycle.
	CheckReady(cmd int, addrVec []int) bool

	// Issue updates the device state with an issued command.
	Issue(cmd int, addrVec []int)

	// Tick advances the device clock by one cycle.
	Tick()
}
