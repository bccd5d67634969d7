package gate

import "time"

// Token is the one-shot release capability for a submitted request. Exactly
// one Token exists per request. Submit returns it, and with WithCurryRelease
// the same Token is also prepended to the callback arguments.
type Token struct {
	controller *Controller
	req        *request
}

// Release returns the request's amount to its category, or removes the
// request from the queue if it was never admitted. That removal is the
// cancellation mechanism; there is no separate cancel call. Either way the
// category is swept again, so freed capacity admits queued work before
// Release returns.
//
// Release is idempotent: calls after the first are silent no-ops.
func (t *Token) Release() {
	c := t.controller
	c.mu.Lock()
	defer c.mu.Unlock()

	req := t.req
	if req.state == StateReleased {
		return
	}

	cat := req.category
	canceled := false
	var held time.Duration

	switch req.state {
	case StateQueued:
		// Never admitted: no capacity to return, just leave the queue.
		cat.pending.Remove(req.elem)
		req.elem = nil
		canceled = true
	case StateRunning:
		cat.consumed -= req.amount
	}

	req.state = StateReleased
	req.releasedAt = time.Now()
	if !canceled {
		held = req.releasedAt.Sub(req.startedAt)
	}
	req.refreshSnapshot()

	c.metrics.RecordRelease(cat.name, req.amount, held, canceled)
	c.logger.LogRelease(req.ctx, cat.name, req.amount, canceled)

	c.sweep(cat)
}

// Debug returns a copy of the request's bookkeeping snapshot, or nil when
// the submission did not enable WithDebug. Successive calls observe the
// snapshot as refreshed by the latest state change.
func (t *Token) Debug() *DebugInfo {
	c := t.controller
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.req.snap == nil {
		return nil
	}
	snap := *t.req.snap
	return &snap
}
