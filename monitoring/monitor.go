// Package monitoring turns a running simulation into a web server that can be
// inspected and controlled.
package monitoring

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/CMU-SAFARI/BreakHammer/sim"
)

// A BlacklistLister reports the sources that are currently blacklisted.
type BlacklistLister interface {
	Blacklisted() []int
}

type namedBlacklist struct {
	name string
	list BlacklistLister
}

// Monitor serves the state of a simulation over HTTP and lets a user pause it.
// Component state is read while the engine runs; values can be one cycle old.
type Monitor struct {
	engine      sim.Engine
	components  []sim.Component
	blacklists  []namedBlacklist
	portNumber  int
	openBrowser bool

	barsLock sync.Mutex
	bars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port of the server. Ports below 1000 are reserved;
// 0 or a reserved port picks a free one.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		logrus.WithField("port", portNumber).
			Warn("reserved monitoring port, using a random one")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open its page in a browser once started.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterEngine sets the engine to pause, continue, and read the time of.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterComponent makes a component inspectable.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.components = append(m.components, c)
}

// RegisterBlacklist registers a named source of blacklisted threads.
func (m *Monitor) RegisterBlacklist(name string, l BlacklistLister) {
	m.blacklists = append(m.blacklists, namedBlacklist{name, l})
}

// CreateProgressBar creates a progress bar shown until it is completed.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.barsLock.Lock()
	m.bars = append(m.bars, bar)
	m.barsLock.Unlock()

	return bar
}

// CompleteProgressBar stops showing a progress bar.
func (m *Monitor) CompleteProgressBar(bar *ProgressBar) {
	m.barsLock.Lock()
	defer m.barsLock.Unlock()

	for i, b := range m.bars {
		if b == bar {
			m.bars = append(m.bars[:i], m.bars[i+1:]...)
			return
		}
	}
}

func (m *Monitor) progressSnapshot() []progressRsp {
	m.barsLock.Lock()
	defer m.barsLock.Unlock()

	bars := make([]progressRsp, 0, len(m.bars))
	for _, b := range m.bars {
		bars = append(bars, b.snapshot())
	}

	return bars
}

// inspect calls f while the engine handles no event.
func (m *Monitor) inspect(f func()) {
	if m.engine == nil {
		f()
		return
	}

	m.engine.Inspect(f)
}

func (m *Monitor) component(name string) (sim.Component, bool) {
	for _, c := range m.components {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

// Handler returns the routes of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/pause", m.pauseEngine)
	api.HandleFunc("/continue", m.continueEngine)
	api.HandleFunc("/now", m.now)
	api.HandleFunc("/list_components", m.listComponents)
	api.HandleFunc("/component/{name}", m.componentDetails)
	api.HandleFunc("/field/{json}", m.fieldValue)
	api.HandleFunc("/blacklist", m.listBlacklists)
	api.HandleFunc("/progress", m.listProgressBars)
	api.HandleFunc("/resource", m.resources)
	api.HandleFunc("/profile", m.profile)

	return r
}

// StartServer serves the monitor in the background and returns its address.
func (m *Monitor) StartServer() string {
	addr := ":0"
	if m.portNumber > 1000 {
		addr = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", addr)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		dieOnErr(http.Serve(listener, m.Handler()))
	}()

	if m.openBrowser {
		err = browser.OpenURL(url + "/api/list_components")
		if err != nil {
			logrus.WithError(err).Warn("cannot open browser")
		}
	}

	return url
}

func dieOnErr(err error) {
	if err != nil {
		logrus.Panic(err)
	}
}
