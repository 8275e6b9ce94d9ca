package planner

import (
	"testing"

	"go.viam.com/test"
)

func TestPoolReserveCommitRunFinalize(t *testing.T) {
	t.Parallel()
	p := newPool(4, 3)

	test.That(t, p.haveFree(4), test.ShouldBeTrue)
	test.That(t, p.haveFree(5), test.ShouldBeFalse)

	buf, ok := p.reserve()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, buf.state, test.ShouldEqual, bufLoading)

	committed := p.commit(MoveLine)
	test.That(t, committed.state, test.ShouldEqual, bufQueued)
	test.That(t, committed.moveType, test.ShouldEqual, MoveLine)

	head, ok := p.runHead()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, head.state, test.ShouldEqual, bufRunning)

	test.That(t, p.finalizeRun(), test.ShouldBeNil)
	_, ok = p.runHead()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestPoolReleaseUndoesReserve(t *testing.T) {
	t.Parallel()
	p := newPool(4, 3)
	_, ok := p.reserve()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, p.haveFree(4), test.ShouldBeFalse)
	p.release()
	test.That(t, p.haveFree(4), test.ShouldBeTrue)
}

func TestPoolExhaustion(t *testing.T) {
	t.Parallel()
	p := newPool(2, 3)
	_, ok := p.reserve()
	test.That(t, ok, test.ShouldBeTrue)
	_, ok = p.reserve()
	test.That(t, ok, test.ShouldBeTrue)
	_, ok = p.reserve()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestFinalizeRunRejectsWrongState(t *testing.T) {
	t.Parallel()
	p := newPool(2, 3)
	test.That(t, p.finalizeRun(), test.ShouldNotBeNil)
}

func TestPrevImplicitAndAt(t *testing.T) {
	t.Parallel()
	p := newPool(4, 3)
	_, _ = p.reserve()
	first := p.commit(MoveLine)
	first.unitVec[0] = 1

	test.That(t, p.prevImplicit(), test.ShouldEqual, first)
	test.That(t, p.at(0), test.ShouldEqual, first)
}

func TestQueuedCount(t *testing.T) {
	t.Parallel()
	p := newPool(8, 3)
	test.That(t, p.queuedCount(), test.ShouldEqual, 0)
	_, _ = p.reserve()
	p.commit(MoveLine)
	test.That(t, p.queuedCount(), test.ShouldEqual, 1)
}
