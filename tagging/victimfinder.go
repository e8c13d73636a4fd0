package tagging

import (
	"github.com/cachelab/ipvsim/replacement"
)

// A VictimFinder decides which block should be evicted
type VictimFinder interface {
	FindVictim(set *Set) (Block, bool)
}

// PolicyVictimFinder selects victims according to a replacement policy.
type PolicyVictimFinder struct {
	policy replacement.Policy
}

// NewPolicyVictimFinder returns a newly constructed policy-driven evictor.
func NewPolicyVictimFinder(policy replacement.Policy) *PolicyVictimFinder {
	e := &PolicyVictimFinder{
		policy: policy,
	}

	return e
}

// FindVictim returns the block to evict from a set. Slots that hold no live
// line are reused before any live line is evicted. Locked blocks are never
// presented to the policy. If every block is locked, there is no victim.
func (e *PolicyVictimFinder) FindVictim(set *Set) (Block, bool) {
	// First try evicting an empty block
	for _, block := range set.Blocks {
		if !block.IsValid && !block.IsLocked {
			return block, true
		}
	}

	candidates := make([]replacement.Candidate, 0, len(set.Blocks))
	for _, block := range set.Blocks {
		if block.IsLocked {
			continue
		}

		candidates = append(candidates, replacement.Candidate{
			State: block.ReplState,
			WayID: block.WayID,
		})
	}

	if len(candidates) == 0 {
		return Block{}, false
	}

	wayID := e.policy.FindVictim(candidates)

	return set.Blocks[wayID], true
}
