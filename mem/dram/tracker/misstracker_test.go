package tracker

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

var _ = Describe("MissTracker", func() {
	var (
		mockCtrl *gomock.Controller
		t        *MissTracker
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		t = NewMissTracker()
		Expect(t.Setup(&dram.PluginContext{Device: newDevice(mockCtrl)})).
			To(Succeed())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should count activations per source and bank", func() {
		t.Update(true, request(cmdACT, dram.ReqRead, 1, 0, 0, 0, 1, 5, -1))
		t.Update(true, request(cmdACT, dram.ReqRead, 1, 0, 1, 1, 1, 5, -1))
		t.Update(true, request(cmdACT, dram.ReqWrite, 1, 0, 1, 1, 1, 6, -1))
		t.Update(true, request(cmdACT, dram.ReqWrite, 2, 0, 0, 0, 1, 7, -1))

		Expect(t.SourceReads(1)).To(Equal(uint64(2)))
		Expect(t.SourceWrites(1)).To(Equal(uint64(1)))
		Expect(t.SourceReqs(1)).To(Equal(uint64(3)))
		Expect(t.SourceActs(1, 1)).To(Equal(uint64(1)))
		Expect(t.SourceActs(7, 1)).To(Equal(uint64(2)))
		Expect(t.SourceActs(1, 2)).To(Equal(uint64(1)))
		Expect(t.SourceReqs(3)).To(BeZero())
	})

	It("should ignore other commands and idle cycles", func() {
		t.Update(false, nil)
		t.Update(true, request(cmdRD, dram.ReqRead, 1, 0, 0, 0, 1, 5, 0))

		Expect(t.SourceReqs(1)).To(BeZero())
	})

	It("should reset all counters", func() {
		t.Update(true, request(cmdACT, dram.ReqRead, 1, 0, 0, 0, 1, 5, -1))

		t.ResetCounters()

		Expect(t.SourceReads(1)).To(BeZero())
		Expect(t.SourceActs(1, 1)).To(BeZero())
	})

	It("should be registered", func() {
		p, err := dram.NewPlugin("MissTracker", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&MissTracker{}))
	})
})
