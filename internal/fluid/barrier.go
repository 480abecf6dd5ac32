package fluid

import "sync"

// barrier is a reusable (cyclic) synchronization point for a fixed number of
// participants. Unlike a sync.WaitGroup, which can only be waited on once
// before being reused from zero, a barrier can be crossed repeatedly across
// many pass boundaries within a single step without re-allocating or
// re-arming anything between crossings.
type barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
	broken     bool
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until all parties have called wait for the current generation,
// then releases them all together and advances to the next generation.
func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		return
	}

	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return
	}

	for gen == b.generation && !b.broken {
		b.cond.Wait()
	}
}

// trip releases every currently waiting party without requiring the full
// party count, permanently marking the barrier broken. Used during Destroy
// to unblock workers that are parked on a pass boundary.
func (b *barrier) trip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broken = true
	b.cond.Broadcast()
}
