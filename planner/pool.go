package planner

import "github.com/pkg/errors"

// pool is the fixed-capacity ring of motion buffers. It is the
// only object touched by both the producer (submit front-ends) and the
// consumer (dispatcher); the state-transition rules below are what let
// a single-threaded cooperative scheduler share it safely between the two
// roles without locks.
//
// A doubly-linked ring of prev/next pointers would let the backplanner walk
// arbitrary distances backwards from the write head without knowing
// absolute indices; an index-based ring with modular arithmetic gives the
// same O(1) previous/next access and is simpler in Go.
type pool struct {
	buf []Buffer

	w int // write head: next slot an acquirer may claim if empty
	q int // queue head: next slot to commit via "queue"
	r int // run head: oldest committed slot

	reserved int // outstanding reserve() calls not yet committed
}

// newPool allocates the ring's fixed capacity once; no slot is ever grown or
// reallocated afterwards (Non-goals: no dynamic allocation at runtime).
func newPool(size, axes int) *pool {
	p := &pool{buf: make([]Buffer, size)}
	for i := range p.buf {
		p.buf[i].reset(axes)
	}
	return p
}

func (p *pool) size() int { return len(p.buf) }

func (p *pool) idx(i int) int {
	n := p.size()
	return ((i % n) + n) % n
}

// reserve claims the slot at w if it is empty, advances w, and returns it.
// Multiple reservations may be outstanding simultaneously, up to N.
func (p *pool) reserve() (*Buffer, bool) {
	slot := &p.buf[p.w]
	if slot.state != bufEmpty {
		return nil, false
	}
	axes := len(slot.target)
	slot.reset(axes)
	slot.state = bufLoading
	p.w = p.idx(p.w + 1)
	p.reserved++
	return slot, true
}

// release undoes the most recent reserve that will not be committed. Valid
// only immediately after such a reserve.
func (p *pool) release() {
	if p.reserved == 0 {
		return
	}
	p.w = p.idx(p.w - 1)
	axes := len(p.buf[p.w].target)
	p.buf[p.w].reset(axes)
	p.reserved--
}

// commit promotes the slot at q (the earliest reserved-but-uncommitted
// slot) to queued, and advances q. Submitters must always commit before
// returning control to a caller that sees the request as accepted, or the
// pool leaks a reserved slot.
func (p *pool) commit(moveType MoveType) *Buffer {
	slot := &p.buf[p.q]
	slot.state = bufQueued
	slot.moveType = moveType
	slot.moveState = moveNew
	slot.replannable = true
	p.q = p.idx(p.q + 1)
	if p.reserved > 0 {
		p.reserved--
	}
	return slot
}

// runHead returns the slot at r if it is ready to run or already running,
// promoting queued/pending to running on first observation.
func (p *pool) runHead() (*Buffer, bool) {
	slot := &p.buf[p.r]
	switch slot.state {
	case bufQueued, bufPending:
		slot.state = bufRunning
		return slot, true
	case bufRunning:
		return slot, true
	default:
		return nil, false
	}
}

// finalizeRun clears the slot at r, advances r, and promotes the new r slot
// from queued to pending if applicable (so the dispatcher always has the
// next buffer ready to be taken as the run head without racing a submit
// that might still be populating it).
func (p *pool) finalizeRun() error {
	slot := &p.buf[p.r]
	if slot.state != bufRunning {
		return errors.Errorf("finalizeRun called on slot in state %s, want running", slot.state)
	}
	axes := len(slot.target)
	slot.reset(axes)
	p.r = p.idx(p.r + 1)
	next := &p.buf[p.r]
	if next.state == bufQueued {
		next.state = bufPending
	}
	return nil
}

// haveFree reports whether the n slots starting at w are all empty, the
// precondition submit_aline requires before reserving its three
// buffers.
func (p *pool) haveFree(n int) bool {
	if n > p.size() {
		return false
	}
	for i := 0; i < n; i++ {
		if p.buf[p.idx(p.w+i)].state != bufEmpty {
			return false
		}
	}
	return true
}

// prevImplicit returns the slot just before w: the most recently committed
// tail, consulted by submit_aline for the cornering calculation against the
// previous move.
func (p *pool) prevImplicit() *Buffer {
	return &p.buf[p.idx(p.w-1)]
}

// at returns the slot at a given distance before w (0 = prevImplicit), used
// by the backplanner to walk arbitrary distances backwards.
func (p *pool) at(back int) *Buffer {
	return &p.buf[p.idx(p.w-1-back)]
}

// queuedCount returns the number of queued+pending+running slots, which
// should always equal (q - r) mod N.
func (p *pool) queuedCount() int {
	return p.idx(p.q - p.r)
}
