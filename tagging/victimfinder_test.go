package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cachelab/ipvsim/replacement"
)

var _ = Describe("PolicyVictimFinder", func() {
	var (
		policy *replacement.IPVPolicy
		finder *PolicyVictimFinder
		set    *Set
	)

	BeforeEach(func() {
		policy = replacement.NewIPVPolicy(4)
		finder = NewPolicyVictimFinder(policy)

		set = &Set{}
		for i := 0; i < 4; i++ {
			set.Blocks = append(set.Blocks, Block{
				WayID:     i,
				IsValid:   true,
				ReplState: policy.InstantiateEntry(),
			})
		}
	})

	It("should prefer an empty block", func() {
		set.Blocks[2].IsValid = false

		victim, ok := finder.FindVictim(set)

		Expect(ok).To(BeTrue())
		Expect(victim.WayID).To(Equal(2))
	})

	It("should not pick a locked empty block", func() {
		set.Blocks[2].IsValid = false
		set.Blocks[2].IsLocked = true
		set.Blocks[3].ReplState.Depth = 3

		victim, ok := finder.FindVictim(set)

		Expect(ok).To(BeTrue())
		Expect(victim.WayID).To(Equal(3))
	})

	It("should evict the deepest live block", func() {
		set.Blocks[0].ReplState.Depth = 1
		set.Blocks[1].ReplState.Depth = 3
		set.Blocks[2].ReplState.Depth = 2
		set.Blocks[3].ReplState.Depth = 0

		victim, ok := finder.FindVictim(set)

		Expect(ok).To(BeTrue())
		Expect(victim.WayID).To(Equal(1))
	})

	It("should skip locked blocks", func() {
		set.Blocks[0].ReplState.Depth = 1
		set.Blocks[1].ReplState.Depth = 3
		set.Blocks[1].IsLocked = true
		set.Blocks[2].ReplState.Depth = 2
		set.Blocks[3].ReplState.Depth = 0

		victim, ok := finder.FindVictim(set)

		Expect(ok).To(BeTrue())
		Expect(victim.WayID).To(Equal(2))
	})

	It("should find no victim if all blocks are locked", func() {
		for i := range set.Blocks {
			set.Blocks[i].IsLocked = true
		}

		_, ok := finder.FindVictim(set)

		Expect(ok).To(BeFalse())
	})
})
