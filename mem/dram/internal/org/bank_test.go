package org

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type levels map[string][2]int

func (l levels) LevelIndex(name string) (int, bool) {
	v, ok := l[name]

	return v[0], ok
}

func (l levels) LevelSize(name string) int {
	v, ok := l[name]
	if !ok {
		return -1
	}

	return v[1]
}

var _ = Describe("Organization", func() {
	var src levels

	BeforeEach(func() {
		src = levels{
			LevelChannel:   {0, 1},
			LevelRank:      {1, 2},
			LevelBankGroup: {2, 4},
			LevelBank:      {3, 4},
			LevelRow:       {4, 1024},
			LevelColumn:    {5, 128},
		}
	})

	It("should flatten bank addresses", func() {
		o, err := New(src)
		Expect(err).NotTo(HaveOccurred())

		Expect(o.NumBanks()).To(Equal(32))
		Expect(o.FlatBankID([]int{0, 0, 0, 0, 7, 1})).To(Equal(0))
		Expect(o.FlatBankID([]int{0, 0, 1, 2, 7, 1})).To(Equal(6))
		Expect(o.FlatBankID([]int{0, 1, 3, 3, 7, 1})).To(Equal(31))
	})

	It("should treat a missing bank group level as one group", func() {
		delete(src, LevelBankGroup)
		src[LevelBank] = [2]int{2, 8}
		src[LevelRow] = [2]int{3, 1024}

		o, err := New(src)
		Expect(err).NotTo(HaveOccurred())

		Expect(o.NumBanks()).To(Equal(16))
		Expect(o.FlatBankID([]int{0, 1, 5, 9})).To(Equal(13))
	})

	It("should reject a device without rows", func() {
		delete(src, LevelRow)

		_, err := New(src)

		Expect(err).To(HaveOccurred())
	})

	It("should list same-bank banks across groups", func() {
		o, _ := New(src)

		Expect(o.BankGroupBanks(1, 2)).To(Equal([]int{18, 22, 26, 30}))
		Expect(o.RankBanks(0)).To(HaveLen(16))
	})
})
