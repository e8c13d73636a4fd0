package replacement

import (
	"fmt"
	"log"
)

// ipvTableSize is the number of depth positions the shipped table is tuned
// for. The IPV behavior is only used when the associativity matches it.
const ipvTableSize = 16

// ipvTable is the insertion/promotion vector. Indices 0..ipvTableSize-1
// give the depth a line moves to when it is hit at that depth. The last
// index gives the depth assigned to a freshly inserted line. Hand-tuned
// constant data; every entry must stay within [0, ipvTableSize-1].
var ipvTable = [ipvTableSize + 1]uint8{
	0, 0, 1, 0, 3, 0, 1, 2, 1, 0, 5, 1, 0, 0, 1, 11,
	13,
}

// IPVPolicy replaces the classic per-set recency stack with a bounded
// per-line depth that is rewritten through the insertion/promotion vector.
// A hit does not necessarily promote a line all the way to depth 0, so low
// reuse lines do not earn full protection from a single touch. The victim
// of a set is the line with the largest depth.
//
// When the associativity does not match the table size, the policy falls
// back to LRU-like behavior: insert at the deepest position and promote to
// 0 on every hit.
type IPVPolicy struct {
	numWays int
	useIPV  bool
}

// NewIPVPolicy creates an IPVPolicy for caches with numWays-way sets.
func NewIPVPolicy(numWays int) *IPVPolicy {
	if numWays <= 0 {
		panic(fmt.Sprintf(
			"replacement: way associativity must be positive, got %d",
			numWays))
	}

	mustBeValidTable()

	p := &IPVPolicy{
		numWays: numWays,
		useIPV:  numWays == ipvTableSize,
	}

	if !p.useIPV {
		log.Printf(
			"replacement: IPV table is tuned for %d-way sets, "+
				"cache is %d-way, using LRU-like fallback",
			ipvTableSize, numWays)
	}

	return p
}

// InstantiateEntry creates the depth record for one line slot. The depth
// only becomes meaningful at the first fill.
func (p *IPVPolicy) InstantiateEntry() *LineState {
	return &LineState{}
}

// OnFill assigns the insertion depth to a newly allocated line. New lines
// are placed fairly deep so that they must prove reuse before earning
// protection.
func (p *IPVPolicy) OnFill(state *LineState) {
	if p.useIPV {
		state.Depth = ipvTable[ipvTableSize]
		return
	}

	state.Depth = uint8(p.numWays - 1)
}

// OnHit rewrites the line's depth through the promotion vector. In
// fallback mode the line is promoted directly to depth 0.
func (p *IPVPolicy) OnHit(state *LineState) {
	if !p.useIPV {
		state.Depth = 0
		return
	}

	i := state.Depth
	if i >= ipvTableSize {
		// Cannot happen through this policy's own updates. Guard against
		// corrupted state instead of reading past the table.
		i = ipvTableSize - 1
	}

	state.Depth = ipvTable[i]
}

// OnInvalidate does nothing. The depth of an invalid line is meaningless
// and the next fill overwrites it.
func (p *IPVPolicy) OnInvalidate(_ *LineState) {
}

// FindVictim returns the WayID of the candidate with the largest depth.
// The first candidate with the maximum depth wins.
func (p *IPVPolicy) FindVictim(candidates []Candidate) int {
	if len(candidates) == 0 {
		panic("replacement: no candidate to evict from")
	}

	victim := candidates[0]
	for _, c := range candidates[1:] {
		if c.State.Depth > victim.State.Depth {
			victim = c
		}
	}

	return victim.WayID
}

func mustBeValidTable() {
	for i, d := range ipvTable {
		if d >= ipvTableSize {
			panic(fmt.Sprintf(
				"replacement: IPV table entry %d is %d, must be below %d",
				i, d, ipvTableSize))
		}
	}
}
