// Package cache provides a functional model of a set-associative cache. The
// model tracks which lines are resident and applies a replacement policy on
// fills, hits, and evictions. It does not model timing.
package cache

import (
	"fmt"

	"github.com/cachelab/ipvsim/datarecording"
	"github.com/cachelab/ipvsim/replacement"
	"github.com/cachelab/ipvsim/tagging"
)

// Stats counts the accesses that a cache has served.
type Stats struct {
	NumAccess   uint64
	NumHit      uint64
	NumMiss     uint64
	NumEviction uint64
}

// HitRate returns the fraction of accesses that hit.
func (s Stats) HitRate() float64 {
	if s.NumAccess == 0 {
		return 0
	}

	return float64(s.NumHit) / float64(s.NumAccess)
}

// AccessResult describes what happened to a single access.
type AccessResult struct {
	Hit        bool
	SetID      int
	WayID      int
	Evicted    bool
	EvictedTag uint64
}

type evictionEntry struct {
	AccessCount uint64
	Tag         uint64
	SetID       int
	WayID       int
}

// Comp is a cache model. One goroutine must drive a Comp at a time.
type Comp struct {
	name          string
	log2BlockSize int

	tags         tagging.TagArray
	policy       replacement.Policy
	victimFinder tagging.VictimFinder
	dataRecorder datarecording.DataRecorder

	stats Stats
}

// Name returns the name of the cache.
func (c *Comp) Name() string {
	return c.name
}

// Stats returns the access counts collected so far.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Access runs one read or write access through the cache. A miss allocates
// the line, evicting a resident line if the set is full.
func (c *Comp) Access(addr uint64) AccessResult {
	blockAddr := c.blockAddr(addr)
	c.stats.NumAccess++

	block, found := c.tags.Lookup(blockAddr)
	if found {
		c.policy.OnHit(block.ReplState)
		c.stats.NumHit++

		return AccessResult{
			Hit:   true,
			SetID: block.SetID,
			WayID: block.WayID,
		}
	}

	c.stats.NumMiss++

	return c.fill(blockAddr)
}

// Invalidate drops the line that holds addr, if it is resident. The line's
// replacement state is left for the next fill to overwrite.
func (c *Comp) Invalidate(addr uint64) bool {
	block, found := c.tags.Lookup(c.blockAddr(addr))
	if !found {
		return false
	}

	c.policy.OnInvalidate(block.ReplState)
	block.IsValid = false
	c.tags.Update(block)

	return true
}

// Reset invalidates all the lines of the cache.
func (c *Comp) Reset() {
	c.tags.Reset()
	c.stats = Stats{}
}

func (c *Comp) fill(blockAddr uint64) AccessResult {
	set, setID := c.tags.GetSet(blockAddr)

	victim, found := c.victimFinder.FindVictim(set)
	if !found {
		// The untimed model never locks blocks, so a set can always
		// provide a victim.
		panic(fmt.Sprintf(
			"cache %s: no victim in set %d", c.name, setID))
	}

	result := AccessResult{
		SetID: setID,
		WayID: victim.WayID,
	}

	if victim.IsValid {
		c.policy.OnInvalidate(victim.ReplState)
		c.stats.NumEviction++
		c.recordEviction(victim)

		result.Evicted = true
		result.EvictedTag = victim.Tag
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.tags.Update(victim)

	c.policy.OnFill(victim.ReplState)

	return result
}

func (c *Comp) blockAddr(addr uint64) uint64 {
	return addr >> c.log2BlockSize << c.log2BlockSize
}

func (c *Comp) recordEviction(victim tagging.Block) {
	if c.dataRecorder == nil {
		return
	}

	c.dataRecorder.InsertData(c.evictionTableName(), evictionEntry{
		AccessCount: c.stats.NumAccess,
		Tag:         victim.Tag,
		SetID:       victim.SetID,
		WayID:       victim.WayID,
	})
}

func (c *Comp) evictionTableName() string {
	return c.name + "_evictions"
}
