package tracker

import (
	"fmt"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/datarecording"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/org"
)

func init() {
	dram.RegisterPlugin("CommandDumper",
		func(p config.Params) (dram.Plugin, error) {
			r := config.NewReader("CommandDumper", p)
			cmds := r.RequiredStrings("commands_to_dump")
			path := r.RequiredString("path")

			if r.Err() != nil {
				return nil, r.Err()
			}

			return NewCommandDumper(cmds, path), nil
		})
}

// CommandEntry is one dumped command.
type CommandEntry struct {
	Clk      int64
	CmdID    int
	Rank     int
	FlatBank int
	Row      int
}

type commandMapping struct {
	Name string
	ID   int
}

// CommandDumper records selected commands with the cycle they are issued in.
type CommandDumper struct {
	names []string
	path  string

	recorder datarecording.DataRecorder
	owned    bool
	table    string

	org org.Organization
	ids []int
	clk int64
}

// NewCommandDumper creates a CommandDumper that writes to path.ch<channel>
// when set up.
func NewCommandDumper(commands []string, path string) *CommandDumper {
	return &CommandDumper{names: commands, path: path}
}

// WithRecorder makes the dumper write to an existing recorder.
func (d *CommandDumper) WithRecorder(
	r datarecording.DataRecorder,
) *CommandDumper {
	d.recorder = r
	return d
}

// Name returns the name of the plugin.
func (d *CommandDumper) Name() string {
	return "CommandDumper"
}

// Setup resolves the commands and creates the tables.
func (d *CommandDumper) Setup(ctx *dram.PluginContext) error {
	if ctx.Device == nil {
		return config.NewConfigurationError(d.Name(),
			"no device in the plugin context")
	}

	d.ids = d.ids[:0]
	for _, name := range d.names {
		id, ok := ctx.Device.CommandID(name)
		if !ok {
			return config.NewConfigurationError(d.Name(),
				"command %s does not exist in the DRAM device %s",
				name, ctx.Device.Name())
		}

		d.ids = append(d.ids, id)
	}

	o, err := org.New(ctx.Device)
	if err != nil {
		return err
	}

	d.org = o

	if d.recorder == nil {
		r, err := datarecording.New(fmt.Sprintf("%s.ch%d", d.path, ctx.ChannelID))
		if err != nil {
			return config.NewConfigurationError(d.Name(),
				"cannot open dump file: %v", err)
		}

		d.recorder = r
		d.owned = true
	}

	d.table = fmt.Sprintf("dram_commands_ch%d", ctx.ChannelID)
	d.recorder.CreateTable(d.table, CommandEntry{})

	mappingTable := d.table + "_mapping"
	d.recorder.CreateTable(mappingTable, commandMapping{})

	for i, name := range d.names {
		d.recorder.InsertData(mappingTable, commandMapping{name, d.ids[i]})
	}

	return nil
}

// Update records the command issued in the current cycle if it is selected.
func (d *CommandDumper) Update(found bool, req *dram.Request) {
	d.clk++

	if !found {
		return
	}

	for _, id := range d.ids {
		if id == req.Command {
			d.dump(req)
			break
		}
	}
}

func (d *CommandDumper) dump(req *dram.Request) {
	bank := -1
	if d.hasBank(req.AddrVec) {
		bank = d.org.FlatBankID(req.AddrVec)
	}

	d.recorder.InsertData(d.table, CommandEntry{
		Clk:      d.clk,
		CmdID:    req.Command,
		Rank:     req.AddrVec[d.org.RankLevel],
		FlatBank: bank,
		Row:      req.AddrVec[d.org.RowLevel],
	})
}

func (d *CommandDumper) hasBank(addrVec []int) bool {
	if addrVec[d.org.RankLevel] < 0 || addrVec[d.org.BankLevel] < 0 {
		return false
	}

	return d.org.BankGroupLevel < 0 || addrVec[d.org.BankGroupLevel] >= 0
}

// Finalize flushes the recorded commands. A recorder created by the dumper
// is closed.
func (d *CommandDumper) Finalize() {
	if d.recorder == nil {
		return
	}

	if d.owned {
		err := d.recorder.Close()
		if err != nil {
			panic(err)
		}

		return
	}

	d.recorder.Flush()
}
