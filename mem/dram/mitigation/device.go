package mitigation

import (
	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/internal/org"
)

// deviceInfo caches what the mitigations need to know about a device.
type deviceInfo struct {
	device dram.Device
	org    org.Organization
	cmds   map[string]int
}

func newDeviceInfo(
	component string,
	device dram.Device,
	required ...string,
) (deviceInfo, error) {
	info := deviceInfo{device: device, cmds: make(map[string]int)}

	if device == nil {
		return info, config.NewConfigurationError(component,
			"no device in the plugin context")
	}

	for _, name := range required {
		id, ok := device.CommandID(name)
		if !ok {
			return info, config.NewConfigurationError(component,
				"DRAM device %s has no %s command", device.Name(), name)
		}

		info.cmds[name] = id
	}

	o, err := org.New(device)
	if err != nil {
		return info, err
	}

	info.org = o

	return info, nil
}

// command returns the id of a command, or -1 if the device lacks it.
func (d deviceInfo) command(name string) int {
	if id, ok := d.cmds[name]; ok {
		return id
	}

	if id, ok := d.device.CommandID(name); ok {
		return id
	}

	return -1
}

func (d deviceInfo) isRowAct(cmd int) bool {
	return d.device.CommandMeta(cmd).IsOpening &&
		d.device.CommandScope(cmd) == d.org.RowLevel
}

func (d deviceInfo) hasBank(req *dram.Request) bool {
	if req.AddrVec[d.org.BankLevel] < 0 {
		return false
	}

	return d.org.BankGroupLevel < 0 || req.AddrVec[d.org.BankGroupLevel] >= 0
}
