package simulation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/datarecording"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram/throttler"
	"github.com/CMU-SAFARI/BreakHammer/sim"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Device.Params = config.Params{
		"ranks":      1,
		"bankgroups": 2,
		"banks":      2,
		"rows":       64,
		"columns":    64,
	}
	cfg.Frontend.InstsPerRequest = 2
	cfg.Frontend.MSHRs = 4
	cfg.Frontend.Cores = []config.CoreConfig{
		{Pattern: "stream", Bank: 0, Requests: 20},
		{Pattern: "random", Bank: 1, Requests: 20},
	}

	return cfg
}

const attacker = 3

// attackConfig runs three light benign cores next to a core hammering two
// rows of bank 0 back to back, under Mithril with RFMs every eight
// activations of a bank.
func attackConfig(throttleType string) *config.Config {
	cfg := smallConfig()
	cfg.Controller.RFMThreshold = 8
	cfg.Scheduler = config.ImplConfig{Impl: "BLISSScheduler"}
	cfg.Plugins = []config.ImplConfig{
		{Impl: "Mithril", Params: config.Params{"num_ctrs": 8, "ad_th": 0}},
		{Impl: "Throttler", Params: config.Params{
			"throttle_type":            throttleType,
			"throttle_dynamic_thresh":  1,
			"throttle_flat_thresh":     4,
			"blacklist_max_mshr":       1,
			"blacklist_mshr_decrement": 1,
		}},
	}
	cfg.Frontend.InstsPerRequest = 1000
	cfg.Frontend.Cores = []config.CoreConfig{
		{Pattern: "random"},
		{Pattern: "random"},
		{Pattern: "random"},
		{Pattern: "hammer", Bank: 0, Rows: []int{10, 12}, InstsPerRequest: 1},
	}

	return cfg
}

func runAttack(throttleType string) *Simulation {
	s, err := MakeBuilder().
		WithConfig(attackConfig(throttleType)).
		WithMaxCycles(40000).
		Build()
	Expect(err).NotTo(HaveOccurred())
	Expect(s.Run()).To(Succeed())

	return s
}

var _ = Describe("Simulation", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = smallConfig()
	})

	It("should refuse a run that never ends", func() {
		cfg.Frontend.Cores[0].Requests = 0

		_, err := MakeBuilder().WithConfig(cfg).Build()

		var cfgErr *config.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Component).To(Equal("Simulation"))
	})

	It("should reject an unknown scheduler", func() {
		cfg.Scheduler.Impl = "FRFCFS"

		_, err := MakeBuilder().WithConfig(cfg).Build()

		Expect(err).To(HaveOccurred())
	})

	It("should reject an unknown plugin", func() {
		cfg.Plugins = []config.ImplConfig{{Impl: "Graphene"}}

		_, err := MakeBuilder().WithConfig(cfg).Build()

		Expect(err).To(HaveOccurred())
	})

	It("should register the components", func() {
		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.ID()).NotTo(BeEmpty())
		Expect(s.Components()).To(HaveLen(2))
		Expect(s.GetComponentByName("Ctrl")).
			To(BeIdenticalTo(sim.Component(s.GetController())))
		Expect(s.GetComponentByName("Frontend")).
			To(BeIdenticalTo(sim.Component(s.GetFrontend())))
		Expect(s.GetComponentByName("LLC")).To(BeNil())
		Expect(s.GetDataRecorder()).To(BeNil())
		Expect(s.GetMonitor()).To(BeNil())
	})

	It("should panic when a component is registered twice", func() {
		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(func() { s.RegisterComponent(s.GetController()) }).To(Panic())
	})

	It("should serve every request", func() {
		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		r := s.Report()
		Expect(r.Cycles).To(BeNumerically(">", 0))
		Expect(r.Controller.Reads).To(Equal(uint64(40)))
		Expect(r.Controller.Writes).To(BeZero())
		Expect(r.Controller.ServedPerSource).To(Equal(map[int]uint64{
			0: 20,
			1: 20,
		}))
		Expect(r.Throttler).To(BeNil())
		Expect(r.Cores).To(HaveLen(2))

		for _, c := range r.Cores {
			Expect(c.Completed).To(Equal(uint64(20)))
			Expect(c.Insts).To(BeNumerically(">=", 20))
			Expect(c.IPC()).To(BeNumerically(">", 0))
			Expect(c.IPC()).To(BeNumerically("<=", 1))
		}

		Expect(s.GetFrontend().Done()).To(BeTrue())
	})

	It("should stop at the cycle limit", func() {
		cfg.Frontend.Cores = []config.CoreConfig{
			{Pattern: "hammer", Bank: 0},
		}

		s, err := MakeBuilder().WithConfig(cfg).WithMaxCycles(500).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())

		Expect(s.Report().Cycles).To(Equal(int64(500)))
		Expect(s.GetFrontend().Clock()).To(Equal(int64(500)))
	})

	It("should report the throttler", func() {
		cfg.Plugins = []config.ImplConfig{
			{Impl: "DummyMitigation"},
			{Impl: "Throttler"},
		}

		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Run()).To(Succeed())

		r := s.Report()
		Expect(r.Throttler).NotTo(BeNil())
		Expect(r.Throttler.ThrottleCounts).To(Equal([]uint64{0, 0}))
		Expect(r.Throttler.FirstBlacklistClk).To(Equal(int64(-1)))

		buf := new(bytes.Buffer)
		n, err := r.WriteTo(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(buf.Len())))
		Expect(buf.String()).To(ContainSubstring("cycles"))
		Expect(buf.String()).To(ContainSubstring("throttled"))
	})

	It("should record the execution", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s, err := MakeBuilder().
			WithConfig(cfg).
			WithRecording(path).
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.GetDataRecorder()).NotTo(BeNil())

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		_, err = os.Stat(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should record throttle events when asked", func() {
		path := filepath.Join(GinkgoT().TempDir(), "events")
		cfg.Recording.ThrottleEvents = true
		cfg.Plugins = []config.ImplConfig{
			{Impl: "DummyMitigation"},
			{Impl: "Throttler"},
		}

		s, err := MakeBuilder().
			WithConfig(cfg).
			WithRecording(path).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.GetDataRecorder().ListTables()).To(ContainElements(
			"exec_info", datarecording.ThrottleEventTable))

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())
	})

	Context("with a hammering thread", func() {
		It("should throttle and deprioritize only the attacker", func() {
			s := runAttack("STDEV")

			r := s.Report()
			Expect(r.Controller.RFMs).To(BeNumerically(">", 0))
			Expect(r.Throttler.ThrottleCounts).To(Equal([]uint64{0, 0, 0, 1}))
			Expect(r.Throttler.FirstBlacklistClk).To(BeNumerically(">", 0))

			t, ok := dram.FindPlugin[*throttler.Throttler](s.GetController())
			Expect(ok).To(BeTrue())
			Expect(t.Blacklisted()).To(Equal([]int{attacker}))
			Expect(s.GetFrontend().LLC().MSHRLimit(attacker)).To(Equal(1))
			Expect(s.GetFrontend().LLC().MSHRLimit(0)).To(Equal(4))

			hammer := &dram.Request{Type: dram.ReqRead, SourceID: attacker}
			benign := &dram.Request{Type: dram.ReqRead, SourceID: 0, Arrive: 10}
			Expect(s.GetController().Scheduler().Compare(hammer, benign)).
				To(BeIdenticalTo(benign))
		})

		It("should slow the attacker down compared to no throttling", func() {
			free := runAttack("NONE").Report()
			throttled := runAttack("STDEV").Report()

			Expect(free.Throttler.ThrottleCounts).To(Equal([]uint64{0, 0, 0, 0}))
			Expect(throttled.Controller.ServedPerSource[attacker]).
				To(BeNumerically("<", free.Controller.ServedPerSource[attacker]))
		})
	})
})
