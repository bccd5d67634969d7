package gate

import (
	"context"
	"time"

	"github.com/zannalov/gate/queue"
)

// Callback is the unit of work gated by the controller. It is invoked
// synchronously by the scheduler once the request is admitted; it typically
// starts asynchronous work and arranges for the request's Token to be
// released when that work completes.
type Callback func(ctx context.Context, args ...any)

// State is the lifecycle state of a submitted request.
type State int

const (
	// StateQueued means the request is waiting for capacity.
	StateQueued State = iota
	// StateRunning means the request was admitted and holds capacity.
	StateRunning
	// StateReleased is terminal: the request's capacity was returned, or
	// the request was canceled before ever running.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// request is the internal bookkeeping for one submission. Its amount is
// fixed at submission time. All fields are guarded by the Controller mutex.
type request struct {
	amount       int64
	callback     Callback
	ctx          context.Context
	args         []any
	curryRelease bool
	debug        bool

	state    State
	category *category
	token    *Token
	elem     *queue.Element[*request] // non-nil only while queued

	queuedAt   time.Time
	startedAt  time.Time
	releasedAt time.Time

	globalRunIndex   uint64
	categoryRunIndex uint64

	snap *DebugInfo
}

// invokeArgs builds the callback argument list, prepending the token when
// release currying is enabled.
func (r *request) invokeArgs() []any {
	if !r.curryRelease {
		return r.args
	}
	args := make([]any, 0, len(r.args)+1)
	args = append(args, r.token)
	return append(args, r.args...)
}

// refreshSnapshot rebuilds the detached debug copy. Called at submission,
// admission, and release so the snapshot tracks every bookkeeping change.
func (r *request) refreshSnapshot() {
	if !r.debug {
		return
	}
	r.snap = &DebugInfo{
		Category:         r.category.name,
		Amount:           r.amount,
		State:            r.state,
		QueuedAt:         r.queuedAt,
		StartedAt:        r.startedAt,
		ReleasedAt:       r.releasedAt,
		GlobalRunIndex:   r.globalRunIndex,
		CategoryRunIndex: r.categoryRunIndex,
	}
}
