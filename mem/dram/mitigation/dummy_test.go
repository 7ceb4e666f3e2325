package mitigation

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

var _ = Describe("DummyMitigation", func() {
	It("should provide empty counters", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		p := NewDummyMitigation()
		ctx := &dram.PluginContext{Device: newDevice(mockCtrl, 1024, allCommands)}
		Expect(p.Setup(ctx)).To(Succeed())

		p.Update(true, act(0, 0))

		Expect(p.AllRefs()).To(HaveLen(4))
		Expect(p.TotalSourceRefs(0)).To(BeZero())

		var _ Throttleable = p
	})
})
