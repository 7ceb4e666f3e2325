package mitigation

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

var _ = Describe("SilverBullet", func() {
	var (
		mockCtrl *gomock.Controller
		ctx      *dram.PluginContext
		params   SilverBulletParams
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ctx = &dram.PluginContext{Device: newDevice(mockCtrl, 64, allCommands)}
		params = SilverBulletParams{
			UnsafeHammerCount: 1024,
			BlastRadius:       1,
			WindowMaxActs:     512,
			WindowNumRefs:     512,
			RefThresh:         4,
			SubBankSize:       16,
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	expectConfigError := func(err error) {
		var cfgErr *config.ConfigurationError
		ExpectWithOffset(1, errors.As(err, &cfgErr)).To(BeTrue())
	}

	DescribeTable("sub-bank size bounds",
		func(size int, ok bool) {
			params.SubBankSize = size
			err := NewSilverBullet(params).Setup(ctx)

			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				expectConfigError(err)
			}
		},
		Entry("below twice the blast radius", 1, false),
		Entry("at twice the blast radius", 2, true),
		Entry("at the bank size", 64, true),
		Entry("above the bank size", 65, false),
		Entry("with a remainder sub-bank", 24, true),
	)

	It("should enforce the refresh threshold bound", func() {
		params.RefThresh = 3
		expectConfigError(NewSilverBullet(params).Setup(ctx))

		params.RefThresh = 4
		Expect(NewSilverBullet(params).Setup(ctx)).To(Succeed())
	})

	It("should add a remainder sub-bank", func() {
		params.SubBankSize = 24
		s := NewSilverBullet(params)
		Expect(s.Setup(ctx)).To(Succeed())

		Expect(s.NumSubBanks()).To(Equal(3))
	})

	It("should tile the bank with at most one remainder sub-bank", func() {
		for size := 2; size <= 64; size++ {
			params.SubBankSize = size
			s := NewSilverBullet(params)
			Expect(s.Setup(ctx)).To(Succeed())

			sizes := s.subBankSizes(64)
			Expect(sizes).To(HaveLen((64 + size - 1) / size))
			Expect(s.NumSubBanks()).To(Equal(len(sizes)))

			total := 0
			for i, n := range sizes {
				total += n
				if i < len(sizes)-1 {
					Expect(n).To(Equal(size))
				}
			}

			Expect(total).To(Equal(64))
		}
	})

	It("should queue and drain a mitigation", func() {
		s := NewSilverBullet(params)
		Expect(s.Setup(ctx)).To(Succeed())

		for i := 0; i < 4; i++ {
			s.Update(true, act(3, 2))
		}

		Expect(s.Pending(1, 0)).To(Equal(1))
		Expect(s.TotalSourceRefs(2)).To(Equal(1.0))
		Expect(s.ConsumeBucket()).To(Equal(1))

		s.Update(false, nil)

		Expect(s.Pending(1, 0)).To(BeZero())
		Expect(s.ConsumeBucket()).To(BeZero())
		Expect(s.Mitigations()).To(Equal(uint64(1)))
	})

	It("should serve the sub-bank with the most pending units first", func() {
		s := NewSilverBullet(params)
		Expect(s.Setup(ctx)).To(Succeed())

		sb0 := s.subBanks[1][0]
		sb1 := s.subBanks[1][1]
		sb0.pending, sb0.queued = 2, true
		sb1.pending, sb1.queued = 2, true
		s.consumeList = []*subBank{sb1, sb0}

		s.consumeBucket = 1
		s.Update(false, nil)
		Expect(sb1.pending).To(Equal(1))
		Expect(sb0.pending).To(Equal(2))

		s.consumeBucket = 1
		s.Update(false, nil)
		Expect(sb0.pending).To(Equal(1))
	})

	It("should not count other commands", func() {
		s := NewSilverBullet(params)
		Expect(s.Setup(ctx)).To(Succeed())

		for i := 0; i < 8; i++ {
			s.Update(true, rfmsb(2))
		}

		Expect(s.ConsumeBucket()).To(BeZero())
		Expect(s.TotalSourceRefs(2)).To(BeZero())
	})
})
