package stride

import "github.com/milk9111/stride/backend"

// ActionStatus is the lifecycle stage of a triggered action.
type ActionStatus int

const (
	// StatusQueued means the action waits for its activation precondition.
	StatusQueued ActionStatus = iota
	// StatusActive means the action contributes to the motion command.
	StatusActive
	// StatusFinished means the action completed and was removed.
	StatusFinished
)

func (s ActionStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Action is a discrete, time-bounded motion strategy layered above the
// basis. Zero or more actions may be queued on a controller; at most one is
// active per tick and may blend with or fully override the basis output.
//
// An action instance owns its own mutable state (elapsed time, phase). It
// is created on trigger and destroyed when finished.
type Action interface {
	// Name identifies the action variant. Re-triggering a queued or active
	// action of the same name refreshes it instead of queueing a second
	// instance.
	Name() string

	// CanStart reports whether the action's entry precondition holds this
	// tick. A false result is normal flow control, not an error: the
	// action stays queued until it starts or its feed window expires.
	CanStart(snap *backend.Snapshot, basis Basis) bool

	// FeedWindow is how long the action may wait in the queue without
	// being re-triggered before it is dropped. This is what implements
	// jump buffering: an early jump trigger stays valid for the window.
	FeedWindow() float64

	// Apply computes the final command for one active tick from the basis
	// output. fed reports whether the host re-triggered the action this
	// tick (released buttons stop feeding). done reports completion; the
	// controller then discards the action.
	Apply(snap *backend.Snapshot, basis Basis, basisCmd Command, fed bool) (cmd Command, done bool, err error)

	// Phase names the action's current internal phase for status
	// consumers (animation, UI). Empty before activation.
	Phase() string
}

// Canceler is implemented by actions that hold external state needing
// teardown when the controller cancels them mid-flight (an earlier-queued
// action reclaiming the active slot). Apply-returned completion does not go
// through Cancel; the action is expected to clean up itself before
// reporting done.
type Canceler interface {
	// Cancel undoes any effect the action left on the basis.
	Cancel(basis Basis)
}

// queuedAction is one entry in the controller's action queue. The queue is
// insertion-ordered; order is priority. At most one entry is active at any
// tick, held in the controller's explicit active slot; seq preserves the
// enqueue order so an earlier trigger can reclaim the slot from a later
// one.
type queuedAction struct {
	action Action
	seq    uint64
	age    float64
	fed    bool
}

func (q *queuedAction) expired() bool {
	return !q.fed && q.age > q.action.FeedWindow()
}
