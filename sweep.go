package gate

import "time"

// sweep is the admission loop for one category. It admits queue heads while
// they fit the free capacity, invoking each admitted callback synchronously,
// and fires the drain notification when the category turns fully idle.
//
// Caller must hold c.mu. The mutex is dropped around callback invocations;
// the sweeping flag keeps concurrent or reentrant triggers from starting a
// second loop on the same category, so admission decisions stay serialized.
// Any state change made while the flag is set (a release, a submission, a
// capacity change) is observed by this loop's next iteration.
func (c *Controller) sweep(cat *category) {
	if cat.sweeping {
		return
	}
	cat.sweeping = true
	defer func() { cat.sweeping = false }()

	for {
		if cat.pending.Len() == 0 {
			if cat.consumed == 0 && !cat.idle {
				cat.idle = true
				c.fireDrain(cat)
				// The drain callback may have submitted new work.
				continue
			}
			return
		}

		head := cat.pending.Front().Value
		if cat.consumed+head.amount > cat.capacity {
			// Strict FIFO: nothing behind the head is considered, even
			// if it would fit. An oversized head was already reported by
			// Submit or SetCapacity; here it simply blocks.
			return
		}
		if !c.reserveAdmission(cat) {
			return
		}

		req, _ := cat.pending.PopFront()
		req.elem = nil
		req.state = StateRunning
		req.startedAt = time.Now()
		cat.consumed += req.amount
		c.globalRunIndex++
		cat.runIndex++
		req.globalRunIndex = c.globalRunIndex
		req.categoryRunIndex = cat.runIndex
		req.refreshSnapshot()

		args := req.invokeArgs()
		ctx := req.ctx
		cb := req.callback
		wait := req.startedAt.Sub(req.queuedAt)

		// The lock is reacquired even when the callback panics, so the
		// deferred unlocks up the stack stay balanced.
		func() {
			defer c.mu.Lock()
			c.mu.Unlock()
			c.metrics.RecordAdmit(cat.name, req.amount, wait)
			c.logger.LogAdmit(ctx, cat.name, req.amount, req.globalRunIndex)
			cb(ctx, args...)
		}()
	}
}

// reserveAdmission consults the category's admission rate limiter, if any.
// When the limiter imposes a delay it schedules a single retry sweep for
// when the reservation would clear and reports false. Caller must hold c.mu.
func (c *Controller) reserveAdmission(cat *category) bool {
	lim := cat.limiter
	if lim == nil {
		return true
	}

	now := time.Now()
	res := lim.ReserveN(now, 1)
	if !res.OK() {
		// Unreachable with an installed limiter: finite limits require
		// burst >= 1 (see validateRate).
		return false
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		c.scheduleRetry(cat, delay)
		return false
	}
	return true
}

func (c *Controller) scheduleRetry(cat *category, delay time.Duration) {
	if cat.retryTimer != nil {
		return
	}
	var tm *time.Timer
	tm = time.AfterFunc(delay, func() {
		c.mu.Lock()
		// A limiter change may have stopped-and-replaced this timer
		// between firing and locking; only clear our own registration.
		if cat.retryTimer == tm {
			cat.retryTimer = nil
		}
		c.sweep(cat)
		c.mu.Unlock()
	})
	cat.retryTimer = tm
}

// fireDrain invokes the drain notification with the mutex dropped. The
// category's idle flag is already set, so reentrant sweeps triggered by the
// callback cannot fire it again until the category leaves idleness.
func (c *Controller) fireDrain(cat *category) {
	fn := cat.onDrain
	name := cat.name

	defer c.mu.Lock()
	c.mu.Unlock()
	c.metrics.RecordDrain(name)
	c.logger.LogDrain(name)
	if fn != nil {
		fn(name)
	}
}
