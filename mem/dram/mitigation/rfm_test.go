package mitigation

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

var _ = Describe("ThrottleRFM", func() {
	var (
		mockCtrl *gomock.Controller
		p        *ThrottleRFM
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		p = NewThrottleRFM()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should require RFM commands", func() {
		ctx := &dram.PluginContext{Device: newDevice(mockCtrl, 1024, without("RFMsb"))}

		Expect(p.Setup(ctx)).NotTo(Succeed())
	})

	It("should charge the top activator on RFM", func() {
		ctx := &dram.PluginContext{Device: newDevice(mockCtrl, 1024, allCommands)}
		Expect(p.Setup(ctx)).To(Succeed())

		for i := 0; i < 3; i++ {
			p.Update(true, act(i, 0))
		}
		for i := 0; i < 5; i++ {
			p.Update(true, act(i, 1))
		}

		p.Update(true, rfmsb(-1))
		Expect(p.TotalSourceRefs(1)).To(Equal(1.0))
		Expect(p.TotalSourceRefs(0)).To(BeZero())
		Expect(p.SourceRefs(1, 1)).To(Equal(1.0))

		p.Update(true, rfmsb(-1))
		Expect(p.TotalSourceRefs(1)).To(Equal(1.0))
	})
})
