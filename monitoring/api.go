package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/CMU-SAFARI/BreakHammer/sim"
)

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]float64{"now": float64(m.engine.CurrentTime())})
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) componentDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := m.component(mux.Vars(r)["name"])
	if !ok {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}

	m.writeComponent(w, c, nil)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) fieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, ok := m.component(req.CompName)
	if !ok {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}

	m.writeComponent(w, c, strings.Split(req.FieldName, "."))
}

// writeComponent writes one level of a component, starting from the field
// path if one is given. The component is read between two events.
func (m *Monitor) writeComponent(
	w http.ResponseWriter,
	c sim.Component,
	path []string,
) {
	var (
		buf    *bytes.Buffer
		status int
		err    error
	)

	m.inspect(func() { buf, status, err = serializeComponent(c, path) })

	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.Copy(w, buf)
}

func serializeComponent(
	c sim.Component,
	path []string,
) (*bytes.Buffer, int, error) {
	s := goseth.NewSerializer()
	s.SetRoot(c)
	s.SetMaxDepth(1)

	if path != nil {
		err := s.SetEntryPoint(path)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
	}

	buf := new(bytes.Buffer)

	err := s.Serialize(buf)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return buf, http.StatusOK, nil
}

type blacklistRsp struct {
	Name        string `json:"name"`
	Blacklisted []int  `json:"blacklisted"`
}

func (m *Monitor) listBlacklists(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]blacklistRsp, 0, len(m.blacklists))

	m.inspect(func() {
		for _, b := range m.blacklists {
			ids := b.list.Blacklisted()
			if ids == nil {
				ids = []int{}
			}

			rsp = append(rsp, blacklistRsp{Name: b.name, Blacklisted: ids})
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.progressSnapshot())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) resources(w http.ResponseWriter, _ *http.Request) {
	rsp, err := processResources()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, rsp)
}

func processResources() (resourceRsp, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return resourceRsp{}, err
	}

	cpu, err := p.CPUPercent()
	if err != nil {
		return resourceRsp{}, err
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return resourceRsp{}, err
	}

	return resourceRsp{CPUPercent: cpu, MemorySize: mem.RSS}, nil
}

// profile samples the CPU for one second.
func (m *Monitor) profile(w http.ResponseWriter, _ *http.Request) {
	buf := new(bytes.Buffer)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encoding response: %v", err),
			http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
