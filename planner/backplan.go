package planner

import "context"

// moveTriple is a view over the three buffers (tail, body, head) that make
// up one aline, addressed by their distance back from the write head (back
// is always a multiple of three: 0 is the most recently committed move).
type moveTriple struct {
	tail, body, head *Buffer
}

func (p *pool) moveAt(back int) moveTriple {
	return moveTriple{
		tail: p.at(back),
		body: p.at(back + 1),
		head: p.at(back + 2),
	}
}

func (m moveTriple) length() float64 {
	return m.head.length + m.body.length + m.tail.length
}

func (m moveTriple) replannable() bool {
	return m.head.replannable && m.body.replannable && m.tail.replannable
}

func (m moveTriple) setReplannable(v bool) {
	m.head.replannable = v
	m.body.replannable = v
	m.tail.replannable = v
}

// committed reports whether this triple was ever actually queued (as
// opposed to still being the ring's untouched empty padding), used by the
// backplanner's chain walk to recognise the start of history.
func (m moveTriple) committed() bool {
	return m.head.groupSize > 0
}

// groupAt discovers the move occupying the group immediately at `back`
// slots behind the write head, without assuming a fixed stride: it reads
// the group size stamped on that buffer at commit time. Returns the number
// of slots the group occupies (0 if the slot was never committed). Alines
// always occupy 3 slots; every other move type occupies 1, so a ring that
// interleaves them can still be walked backward one move at a time.
func (p *pool) groupAt(back int) (size int) {
	return p.at(back).groupSize
}

// writeRegions applies a solveRegions result back onto a move's three
// buffers, classifying each region's move_type null when it folded to zero
// length.
func writeRegions(m moveTriple, r regionResult, cfg Config) {
	if r.headLen < cfg.MinLineLength {
		m.head.moveType = MoveNull
		m.head.length = 0
	} else {
		m.head.moveType = MoveAccel
		m.head.length = r.headLen
	}
	if r.bodyLen < cfg.MinLineLength {
		m.body.moveType = MoveNull
		m.body.length = 0
	} else {
		m.body.moveType = MoveCruise
		m.body.length = r.bodyLen
	}
	if r.tailLen < cfg.MinLineLength {
		m.tail.moveType = MoveNull
		m.tail.length = 0
	} else {
		m.tail.moveType = MoveDecel
		m.tail.length = r.tailLen
	}

	m.head.startVelocity = r.initialVelocity
	m.head.endVelocity = r.cruiseVelocity
	m.body.startVelocity = r.cruiseVelocity
	m.body.endVelocity = r.cruiseVelocity
	m.tail.startVelocity = r.cruiseVelocity
	m.tail.endVelocity = r.finalVelocity
}

// backplan implements multi-move replanning. It must be called immediately
// after submit_aline commits a new move's three buffers (the new move is
// then moveAt(0)).
// forceExactStop marks the new move's immediate predecessor non-replannable
// right away with its tail pinned to zero, instead of waiting for the usual
// "optimally planned" convergence check.
func (pl *Planner) backplan(ctx context.Context, forceExactStop bool) {
	cfg := pl.cfg
	newMove := pl.pool.moveAt(0)

	// Pass 1: find how far back the contiguous replannable chain reaches,
	// and cap the oldest move's requested entry so the whole chain can
	// still brake to zero by its end. Only contiguous runs of 3-slot aline
	// groups extend the chain: a 1-slot move (line/arc/dwell/stop) is always
	// a backplanning boundary.
	chainLen := newMove.length()
	oldestBack := 0
	depth := 0
	for depth < cfg.MaxLookbackDepth {
		candidateBack := oldestBack + 3
		if candidateBack+2 >= pl.pool.size() {
			break
		}
		size := pl.pool.groupAt(candidateBack)
		if size != 3 {
			break
		}
		cand := pl.pool.moveAt(candidateBack)
		if !cand.replannable() {
			break
		}
		chainLen += cand.length()
		oldestBack = candidateBack
		depth++
	}
	if depth >= cfg.MaxLookbackDepth {
		pl.logger.CWarnw(ctx, "backplanner: lookback depth exceeded, leaving remaining buffers replannable",
			"depth", depth, "max_lookback_depth", cfg.MaxLookbackDepth)
	}

	oldest := pl.pool.moveAt(oldestBack)
	if !oldest.committed() {
		return
	}
	brakingCap := jerkVel(0, chainLen, cfg.LinearJerkMax)
	if brakingCap < oldest.head.requestVelocity {
		oldest.head.requestVelocity = brakingCap
	}

	// Pass 2: walk forward from the oldest move back toward the new move,
	// recomputing each predecessor's regions against its successor's
	// already-decided entry velocity.
	back := oldestBack
	for back > 0 {
		downstream := pl.pool.moveAt(back - 3)
		p := pl.pool.moveAt(back)

		if p.head.state == bufRunning && !p.head.replannable {
			break
		}

		result := solveRegions(ctx, pl.logger, cfg, p.head.requestVelocity, p.body.requestVelocity, downstream.head.startVelocity, p.length())
		writeRegions(p, result, cfg)

		optimal := withinEpsilon(p.head.startVelocity, p.head.requestVelocity, cfg.Epsilon) &&
			withinEpsilon(p.body.startVelocity, p.body.requestVelocity, cfg.Epsilon) &&
			withinEpsilon(p.tail.endVelocity, downstream.head.startVelocity, cfg.Epsilon)
		if optimal {
			p.setReplannable(false)
		}
		if back == 3 && forceExactStop {
			p.setReplannable(false)
		}
		back -= 3
	}
}
