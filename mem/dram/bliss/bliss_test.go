package bliss

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/mem/dram"
)

func served(src int, t dram.RequestType) *dram.Request {
	return &dram.Request{
		Type:         t,
		SourceID:     src,
		Command:      4,
		FinalCommand: 4,
	}
}

var _ = Describe("BLISS", func() {
	var p *Plugin

	BeforeEach(func() {
		p = New(2, 100)
		Expect(p.Setup(&dram.PluginContext{})).To(Succeed())
	})

	It("should blacklist a source served more than the threshold in a row", func() {
		p.Update(true, served(1, dram.ReqRead))
		p.Update(true, served(1, dram.ReqWrite))
		Expect(p.IsBlacklisted(1)).To(BeFalse())

		p.Update(true, served(1, dram.ReqRead))
		Expect(p.IsBlacklisted(1)).To(BeTrue())
		Expect(p.IsBlacklisted(0)).To(BeFalse())
	})

	It("should restart the streak when the source changes", func() {
		p.Update(true, served(1, dram.ReqRead))
		p.Update(true, served(1, dram.ReqRead))
		p.Update(true, served(0, dram.ReqRead))
		p.Update(true, served(1, dram.ReqRead))
		p.Update(true, served(1, dram.ReqRead))

		Expect(p.NumBlacklisted()).To(Equal(0))
	})

	It("should not count idle cycles, maintenance, or partial commands", func() {
		p.Update(true, served(1, dram.ReqRead))
		p.Update(false, nil)
		p.Update(true, served(1, dram.ReqRFM))
		p.Update(true, &dram.Request{
			Type: dram.ReqRead, SourceID: 1, Command: 0, FinalCommand: 4,
		})
		p.Update(true, served(1, dram.ReqRead))

		Expect(p.IsBlacklisted(1)).To(BeFalse())
	})

	It("should clear the blacklist every interval", func() {
		for i := 0; i < 3; i++ {
			p.Update(true, served(1, dram.ReqRead))
		}
		Expect(p.IsBlacklisted(1)).To(BeTrue())

		for i := 3; i < 99; i++ {
			p.Update(false, nil)
		}
		Expect(p.IsBlacklisted(1)).To(BeTrue())

		p.Update(false, nil)
		Expect(p.IsBlacklisted(1)).To(BeFalse())
	})

	It("should be created from the registry", func() {
		plugin, err := dram.NewPlugin("BLISS", config.Params{
			"blacklisting_threshold": 8,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(plugin.(*Plugin).threshold).To(Equal(8))
		Expect(plugin.(*Plugin).interval).To(Equal(int64(10000)))

		_, err = dram.NewPlugin("BLISS", config.Params{"clearing_interval": 0})
		Expect(err).To(HaveOccurred())
	})

	It("should serve as the blacklist of the BLISS scheduler", func() {
		var provider dram.BlacklistProvider = p
		Expect(provider.IsBlacklisted(7)).To(BeFalse())
	})
})
