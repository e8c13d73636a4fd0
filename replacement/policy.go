// Package replacement provides cache-line replacement policies for
// set-associative structures.
package replacement

// LineState is the per-line record that a replacement policy maintains. One
// LineState belongs to exactly one line slot and lives as long as the slot.
// A fresh LineState carries no meaningful recency information until the
// first fill writes it.
type LineState struct {
	// Depth is a bounded recency proxy. 0 means most protected, larger
	// means more likely to be evicted.
	Depth uint8

	// LastVisit is a monotonic access stamp used by the timestamp LRU
	// policy. The IPV policy ignores it.
	LastVisit uint64
}

// A Candidate pairs a line's replacement state with the way the line
// occupies in the set under eviction.
type Candidate struct {
	State *LineState
	WayID int
}

// A Policy decides how close each line is to eviction and which line in a
// set to evict. All operations complete in bounded time and perform no
// locking. The caller must serialize access to the LineStates of one set.
type Policy interface {
	// InstantiateEntry creates the state for one line slot. It is called
	// once per slot when the owning structure is constructed or reset.
	InstantiateEntry() *LineState

	// OnFill is called when a line is allocated into a slot.
	OnFill(state *LineState)

	// OnHit is called when an access hits a resident line.
	OnHit(state *LineState)

	// OnInvalidate is called when a line becomes invalid. The next fill
	// fully re-establishes the state, so policies may leave it untouched.
	OnInvalidate(state *LineState)

	// FindVictim returns the WayID of the candidate to evict. The
	// candidate list must not be empty and must only contain live lines.
	FindVictim(candidates []Candidate) int
}
