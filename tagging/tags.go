// Package tagging tracks which line occupies each slot of a set-associative
// cache.
package tagging

import (
	"github.com/cachelab/ipvsim/replacement"
)

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag          uint64
	WayID        int
	SetID        int
	CacheAddress uint64
	IsValid      bool
	IsDirty      bool
	IsLocked     bool

	// ReplState is owned by this slot for its whole lifetime. It is
	// shared with the replacement policy and survives Update calls.
	ReplState *replacement.LineState
}

// A Set is a list of blocks where a certain piece of memory can be stored at.
type Set struct {
	Blocks []Block
}

// TagArray keeps the tags of all the sets of a cache.
type TagArray interface {
	Lookup(reqAddr uint64) (Block, bool)
	Update(block Block)
	GetSet(reqAddr uint64) (set *Set, setID int)
	Lock(setID, wayID int)
	Unlock(setID, wayID int)
	Reset()
	TotalSize() uint64
}

// NewTagArray creates a TagArray. The policy supplies one replacement state
// record per line slot.
func NewTagArray(
	numSets int,
	numWays int,
	blockSize int,
	policy replacement.Policy,
) TagArray {
	t := &tagArrayImpl{
		NumSets:   numSets,
		NumWays:   numWays,
		BlockSize: blockSize,
		policy:    policy,
		Sets:      []Set{},
	}

	t.Reset()

	return t
}

type tagArrayImpl struct {
	NumSets   int
	NumWays   int
	BlockSize int
	Sets      []Set

	policy replacement.Policy
}

// TotalSize returns the maximum number of bytes can be stored in the cache
func (d *tagArrayImpl) TotalSize() uint64 {
	return uint64(d.NumSets) * uint64(d.NumWays) * uint64(d.BlockSize)
}

// GetSet returns the set that a certain address should store at
func (d *tagArrayImpl) GetSet(reqAddr uint64) (set *Set, setID int) {
	setID = int(reqAddr / uint64(d.BlockSize) % uint64(d.NumSets))
	set = &d.Sets[setID]

	return
}

// Lookup finds the block that holds reqAddr. If the address is resident in
// the cache, return the block information. Otherwise, return false.
func (d *tagArrayImpl) Lookup(reqAddr uint64) (Block, bool) {
	set, _ := d.GetSet(reqAddr)
	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == reqAddr {
			return block, true
		}
	}

	return Block{}, false
}

// Update updates the block information
func (d *tagArrayImpl) Update(block Block) {
	d.Sets[block.SetID].Blocks[block.WayID] = block
}

// Reset will mark all the blocks in the tag array invalid. Replacement
// states are allocated here, once per slot.
func (d *tagArrayImpl) Reset() {
	d.Sets = make([]Set, d.NumSets)
	for i := 0; i < d.NumSets; i++ {
		for j := 0; j < d.NumWays; j++ {
			block := Block{
				IsValid:   false,
				SetID:     i,
				WayID:     j,
				ReplState: d.policy.InstantiateEntry(),
			}

			d.Sets[i].Blocks = append(d.Sets[i].Blocks, block)
		}
	}
}

func (d *tagArrayImpl) Lock(setID, wayID int) {
	d.Sets[setID].Blocks[wayID].IsLocked = true
}

func (d *tagArrayImpl) Unlock(setID, wayID int) {
	d.Sets[setID].Blocks[wayID].IsLocked = false
}
