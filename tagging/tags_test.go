package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cachelab/ipvsim/replacement"
)

var _ = Describe("TagArray", func() {
	var tags *tagArrayImpl

	BeforeEach(func() {
		tags = &tagArrayImpl{
			NumSets:   1024,
			NumWays:   4,
			BlockSize: 64,
			policy:    replacement.NewLRUPolicy(),
			Sets:      []Set{},
		}
		tags.Reset()
	})

	It("should be able to get total size", func() {
		Expect(tags.TotalSize()).To(Equal(uint64(262144)))
	})

	It("should allocate one replacement state per slot", func() {
		for i := range tags.Sets {
			for j := range tags.Sets[i].Blocks {
				Expect(tags.Sets[i].Blocks[j].ReplState).NotTo(BeNil())
			}
		}
	})

	It("should lookup", func() {
		block := Block{
			Tag:     0x100,
			IsValid: true,
		}
		set, _ := tags.GetSet(0x100)
		set.Blocks[0] = block

		found, ok := tags.Lookup(0x100)
		Expect(ok).To(BeTrue())
		Expect(found.Tag).To(Equal(uint64(0x100)))
	})

	It("should not find an absent block", func() {
		block, ok := tags.Lookup(0x100)
		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should not find an invalid block", func() {
		block := Block{
			Tag:     0x100,
			IsValid: false,
		}
		set, _ := tags.GetSet(0x100)
		set.Blocks[0] = block

		block, ok := tags.Lookup(0x100)
		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should update a block in place", func() {
		block := Block{
			Tag:     0x4000,
			SetID:   256,
			WayID:   2,
			IsValid: true,
		}

		tags.Update(block)

		found, ok := tags.Lookup(0x4000)
		Expect(ok).To(BeTrue())
		Expect(found.WayID).To(Equal(2))
	})

	It("should lock and unlock blocks", func() {
		tags.Lock(1, 2)
		Expect(tags.Sets[1].Blocks[2].IsLocked).To(BeTrue())

		tags.Unlock(1, 2)
		Expect(tags.Sets[1].Blocks[2].IsLocked).To(BeFalse())
	})
})
