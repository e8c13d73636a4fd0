package cache

import (
	"github.com/cachelab/ipvsim/datarecording"
	"github.com/cachelab/ipvsim/replacement"
	"github.com/cachelab/ipvsim/tagging"
)

// Memory capacity units.
const (
	KB = 1 << 10
	MB = 1 << 20
)

// Builder can build caches.
type Builder struct {
	log2CacheLineSize int
	wayAssociativity  int
	cacheByteSize     uint64
	replaceStrategy   string
	dataRecorder      datarecording.DataRecorder
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		log2CacheLineSize: 6,
		wayAssociativity:  16,
		cacheByteSize:     64 * KB,
		replaceStrategy:   "ipv",
	}
}

// WithLog2CacheLineSize sets the log2 of the cache line size of the builder.
func (b Builder) WithLog2CacheLineSize(log2CacheLineSize int) Builder {
	b.log2CacheLineSize = log2CacheLineSize
	return b
}

// WithWayAssociativity sets the way associativity of the builder.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithCacheByteSize sets the capacity of the cache.
func (b Builder) WithCacheByteSize(cacheByteSize uint64) Builder {
	b.cacheByteSize = cacheByteSize
	return b
}

// WithReplaceStrategy sets the replacement strategy of the builder. The
// supported strategies are "ipv" and "lru".
func (b Builder) WithReplaceStrategy(replaceStrategy string) Builder {
	b.replaceStrategy = replaceStrategy
	return b
}

// WithDataRecorder sets the recorder that logs evictions. Without a
// recorder the cache only keeps aggregate counts.
func (b Builder) WithDataRecorder(
	dataRecorder datarecording.DataRecorder,
) Builder {
	b.dataRecorder = dataRecorder
	return b
}

// Build builds a cache.
func (b Builder) Build(name string) *Comp {
	comp := &Comp{
		name:          name,
		log2BlockSize: b.log2CacheLineSize,
	}

	b.initState(comp)

	return comp
}

func (b Builder) initState(comp *Comp) {
	blockSize := 1 << b.log2CacheLineSize
	numWays := b.wayAssociativity
	b.mustBeFullSets(b.cacheByteSize, blockSize, numWays)
	setSize := uint64(blockSize * numWays)
	numSets := int(b.cacheByteSize / setSize)

	policy := b.createPolicy()

	comp.policy = policy
	comp.tags = tagging.NewTagArray(numSets, numWays, blockSize, policy)
	comp.victimFinder = tagging.NewPolicyVictimFinder(policy)
	comp.dataRecorder = b.dataRecorder

	if comp.dataRecorder != nil {
		comp.dataRecorder.CreateTable(
			comp.evictionTableName(), evictionEntry{})
	}
}

func (b Builder) createPolicy() replacement.Policy {
	var policy replacement.Policy

	switch b.replaceStrategy {
	case "ipv":
		policy = replacement.NewIPVPolicy(b.wayAssociativity)
	case "lru":
		policy = replacement.NewLRUPolicy()
	default:
		panic("unknown replace strategy: " + b.replaceStrategy)
	}

	return policy
}

func (b Builder) mustBeFullSets(cacheByteSize uint64, blockSize, numWays int) {
	setSize := uint64(blockSize * numWays)
	if cacheByteSize%setSize != 0 {
		panic("cache must have a integer number of sets")
	}
}
