package gate

import "time"

// DebugInfo is a detached, read-only copy of a request's bookkeeping,
// available through Token.Debug when the submission enabled WithDebug.
// Mutating it has no effect on scheduling.
type DebugInfo struct {
	// Category is the normalized category the request was submitted to.
	Category string
	// Amount is the capacity cost fixed at submission.
	Amount int64
	// State is the request state at the time of the snapshot.
	State State
	// QueuedAt is when the request entered the queue.
	QueuedAt time.Time
	// StartedAt is when the request was admitted; zero while queued.
	StartedAt time.Time
	// ReleasedAt is when the request was released or canceled; zero before.
	ReleasedAt time.Time
	// GlobalRunIndex is the controller-wide admission ordinal, starting at
	// 1 for the first admitted request. Zero while never admitted.
	GlobalRunIndex uint64
	// CategoryRunIndex is the per-category admission ordinal.
	CategoryRunIndex uint64
}

// Running reports whether the snapshot was taken while the request held
// capacity.
func (d *DebugInfo) Running() bool { return d.State == StateRunning }
