package replacement

// LRUPolicy evicts the least recently used line of a set. Instead of a
// per-set queue, every line carries the stamp of its last access and the
// victim is the line with the smallest stamp.
type LRUPolicy struct {
	visitCount uint64
}

// NewLRUPolicy returns a newly constructed LRU policy.
func NewLRUPolicy() *LRUPolicy {
	return &LRUPolicy{}
}

// InstantiateEntry creates the visit record for one line slot.
func (p *LRUPolicy) InstantiateEntry() *LineState {
	return &LineState{}
}

// OnFill stamps a newly allocated line as just used.
func (p *LRUPolicy) OnFill(state *LineState) {
	p.visit(state)
}

// OnHit stamps the line as just used.
func (p *LRUPolicy) OnHit(state *LineState) {
	p.visit(state)
}

// OnInvalidate does nothing. The stamp of an invalid line is meaningless
// and the next fill overwrites it.
func (p *LRUPolicy) OnInvalidate(_ *LineState) {
}

// FindVictim returns the WayID of the candidate with the oldest stamp.
// The first candidate with the minimum stamp wins.
func (p *LRUPolicy) FindVictim(candidates []Candidate) int {
	if len(candidates) == 0 {
		panic("replacement: no candidate to evict from")
	}

	victim := candidates[0]
	for _, c := range candidates[1:] {
		if c.State.LastVisit < victim.State.LastVisit {
			victim = c
		}
	}

	return victim.WayID
}

func (p *LRUPolicy) visit(state *LineState) {
	p.visitCount++
	state.LastVisit = p.visitCount
}
