// Package gate provides an in-process admission controller for Go.
//
// Gate decides when weighted units of a shared resource (file descriptors,
// sockets, connection slots) may be in use at the same time. Work is grouped
// into named categories, each with its own capacity, and admitted in strict
// FIFO order with an optional front-insertion escape hatch. Gate never
// acquires the resource itself: callers submit a callback, and gate invokes
// it once the category has room.
//
// # Quick Start
//
//	ctx := context.Background()
//	c := gate.New()
//	_ = c.SetCapacity("fd", 64)
//
//	tok, err := c.Submit(ctx, func(ctx context.Context, args ...any) {
//	    // open the file, kick off the read, ...
//	}, gate.WithCategory("fd"))
//	if err != nil {
//	    // the request could never be admitted
//	}
//	// later, when the descriptor is closed:
//	tok.Release()
//
// # Admission Model
//
// Each category tracks a capacity and the amount currently consumed by
// running work. A submission is admitted when consumed + amount fits the
// capacity; otherwise it waits in the category's FIFO queue. The queue head
// is never skipped: a large request at the head blocks smaller ones behind
// it until capacity frees up. Admission happens synchronously inside the
// call that made it possible (Submit, Release, or SetCapacity), so a
// callback may run before Submit returns.
//
// Releasing a token that was never admitted cancels the queued request.
// Releasing twice is a no-op.
//
// # Categories
//
// Categories are created lazily on first reference with capacity 1 (see
// WithInitialCapacity) and live for the lifetime of the Controller. An empty
// category name refers to the current default category; the first category
// ever referenced becomes the default unless SetDefaultCategory chose one.
//
// # Observability
//
// Structured logging via log/slog (WithLogger) and pluggable metrics
// (WithMetricsCollector) are off by default. Per-request bookkeeping is
// available through Token.Debug when a submission sets WithDebug.
package gate
