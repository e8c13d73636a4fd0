package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IPVPolicy", func() {
	Context("when the associativity matches the table", func() {
		var p *IPVPolicy

		BeforeEach(func() {
			p = NewIPVPolicy(16)
		})

		It("should create fresh entries at depth 0", func() {
			state := p.InstantiateEntry()

			Expect(state.Depth).To(Equal(uint8(0)))
		})

		It("should insert at the table's insertion depth", func() {
			state := p.InstantiateEntry()

			p.OnFill(state)

			Expect(state.Depth).To(Equal(uint8(13)))
		})

		It("should overwrite the depth on repeated fills", func() {
			state := p.InstantiateEntry()

			p.OnFill(state)
			p.OnHit(state)
			p.OnFill(state)

			Expect(state.Depth).To(Equal(uint8(13)))
		})

		It("should promote through the table from every depth", func() {
			state := p.InstantiateEntry()

			for i := 0; i < ipvTableSize; i++ {
				state.Depth = uint8(i)

				p.OnHit(state)

				Expect(state.Depth).To(Equal(ipvTable[i]))
				Expect(state.Depth).To(BeNumerically("<", ipvTableSize))
			}
		})

		It("should drive a freshly inserted line through 13, 0, 0", func() {
			state := p.InstantiateEntry()

			p.OnFill(state)
			Expect(state.Depth).To(Equal(uint8(13)))

			p.OnHit(state)
			Expect(state.Depth).To(Equal(uint8(0)))

			p.OnHit(state)
			Expect(state.Depth).To(Equal(uint8(0)))
		})

		It("should clamp a corrupted depth instead of crashing", func() {
			state := p.InstantiateEntry()
			state.Depth = 200

			p.OnHit(state)

			Expect(state.Depth).To(Equal(ipvTable[ipvTableSize-1]))
		})

		It("should not change the depth on invalidation", func() {
			state := p.InstantiateEntry()
			p.OnFill(state)

			p.OnInvalidate(state)

			Expect(state.Depth).To(Equal(uint8(13)))
		})
	})

	Context("when the associativity does not match the table", func() {
		var p *IPVPolicy

		BeforeEach(func() {
			p = NewIPVPolicy(2)
		})

		It("should insert at the deepest position", func() {
			state := p.InstantiateEntry()

			p.OnFill(state)

			Expect(state.Depth).To(Equal(uint8(1)))
		})

		It("should promote directly to depth 0", func() {
			state := p.InstantiateEntry()
			p.OnFill(state)

			p.OnHit(state)

			Expect(state.Depth).To(Equal(uint8(0)))
		})

		It("should evict the deeper of two lines", func() {
			protected := &LineState{Depth: 0}
			stale := &LineState{Depth: 1}

			way := p.FindVictim([]Candidate{
				{State: protected, WayID: 0},
				{State: stale, WayID: 1},
			})

			Expect(way).To(Equal(1))
		})
	})

	Context("when selecting victims", func() {
		var p *IPVPolicy

		BeforeEach(func() {
			p = NewIPVPolicy(16)
		})

		It("should pick the first candidate with the largest depth", func() {
			way := p.FindVictim([]Candidate{
				{State: &LineState{Depth: 3}, WayID: 0},
				{State: &LineState{Depth: 7}, WayID: 1},
				{State: &LineState{Depth: 7}, WayID: 2},
				{State: &LineState{Depth: 2}, WayID: 3},
			})

			Expect(way).To(Equal(1))
		})

		It("should pick a victim at least as deep as every candidate",
			func() {
				depths := []uint8{5, 13, 2, 0, 13, 9, 1, 4}
				candidates := make([]Candidate, 0, len(depths))
				for i, d := range depths {
					candidates = append(candidates, Candidate{
						State: &LineState{Depth: d},
						WayID: i,
					})
				}

				way := p.FindVictim(candidates)

				for _, c := range candidates {
					Expect(candidates[way].State.Depth).
						To(BeNumerically(">=", c.State.Depth))
				}
			})

		It("should work regardless of candidate order", func() {
			way := p.FindVictim([]Candidate{
				{State: &LineState{Depth: 15}, WayID: 6},
				{State: &LineState{Depth: 3}, WayID: 0},
			})

			Expect(way).To(Equal(6))
		})

		It("should panic on an empty candidate list", func() {
			Expect(func() {
				p.FindVictim(nil)
			}).To(Panic())
		})
	})

	It("should reject a non-positive associativity", func() {
		Expect(func() {
			NewIPVPolicy(0)
		}).To(Panic())
	})

	It("should carry a well-formed table", func() {
		Expect(func() {
			mustBeValidTable()
		}).NotTo(Panic())

		for _, d := range ipvTable {
			Expect(d).To(BeNumerically("<", ipvTableSize))
		}
	})
})
