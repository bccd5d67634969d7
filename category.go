package gate

import (
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/zannalov/gate/queue"
)

// category holds the live counters, queue and defaults for one capacity
// pool. Categories are created lazily and never deleted. All fields are
// guarded by the Controller mutex.
type category struct {
	name     string
	capacity int64
	consumed int64
	pending  *queue.Deque[*request]
	runIndex uint64

	defaults submitConfig
	onDrain  func(category string)
	limiter  *rate.Limiter

	// sweeping marks an admission sweep in flight; reentrant triggers
	// defer to the running sweep loop instead of starting their own.
	sweeping bool
	// retryTimer is the scheduled rate-limit retry sweep, nil when none.
	// It is stopped when the limiter is replaced or removed, so a stale
	// delay never suppresses the new limiter's retries.
	retryTimer *time.Timer
	// idle gates the drain notification: it fires only on the transition
	// to an empty queue with zero consumed, not on every visit.
	idle bool
}

// normalize resolves name (empty means the default category) to its
// category, creating it on first reference. The first category ever
// referenced becomes the default when none was chosen explicitly.
// Caller must hold c.mu.
func (c *Controller) normalize(name string) *category {
	if name == "" {
		if c.defaultName == nil {
			empty := ""
			c.defaultName = &empty
		}
		name = *c.defaultName
	} else if c.defaultName == nil {
		chosen := name
		c.defaultName = &chosen
	}

	cat, ok := c.categories[name]
	if !ok {
		cat = &category{
			name:     name,
			capacity: c.initialCapacity,
			pending:  queue.New[*request](),
			defaults: submitConfig{amount: 1},
			idle:     true,
		}
		c.categories[name] = cat
	}

	return cat
}

// applyCategorySettings installs the category-level pieces of a resolved
// submit configuration. Caller must hold c.mu.
func (cat *category) applyCategorySettings(cfg *submitConfig) {
	if cfg.drainFn != nil {
		cat.onDrain = cfg.drainFn
	}
	if cfg.rateSet {
		if cat.retryTimer != nil {
			cat.retryTimer.Stop()
			cat.retryTimer = nil
		}
		if cfg.rateLimit == rate.Inf {
			cat.limiter = nil
		} else {
			cat.limiter = rate.NewLimiter(cfg.rateLimit, cfg.rateBurst)
		}
	}
}

// SetCapacity changes the category's capacity and immediately sweeps, so a
// raise can admit queued work without any new submission. Lowering never
// evicts running work; consumed may exceed capacity until releases catch
// up. It returns a ConfigError for non-positive amounts, and the joined
// AdmissionErrors for queued requests the lowered capacity stranded (the
// capacity change still applies).
func (c *Controller) SetCapacity(name string, amount int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat := c.normalize(name)
	if amount <= 0 {
		return &ConfigError{Category: cat.name, Amount: amount}
	}

	lowered := amount < cat.capacity
	cat.capacity = amount

	var err error
	if lowered {
		var stranded []error
		for e := cat.pending.Front(); e != nil; e = e.Next() {
			if req := e.Value; req.amount > amount {
				stranded = append(stranded, &AdmissionError{
					Category: cat.name,
					Amount:   req.amount,
					Capacity: amount,
				})
			}
		}
		err = errors.Join(stranded...)
	}

	c.sweep(cat)
	return err
}

// Capacity returns the category's current capacity.
func (c *Controller) Capacity(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.normalize(name).capacity
}

// Running returns the amount currently consumed by running requests.
func (c *Controller) Running(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.normalize(name).consumed
}

// Free returns capacity minus consumed. It is negative while running work
// exceeds a lowered capacity.
func (c *Controller) Free(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat := c.normalize(name)
	return cat.capacity - cat.consumed
}

// Len returns the number of requests queued behind the category's capacity.
func (c *Controller) Len(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.normalize(name).pending.Len()
}

// SetDefaultCategory changes which category calls with an empty category
// name resolve to, from this point forward.
func (c *Controller) SetDefaultCategory(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chosen := name
	c.defaultName = &chosen
	c.normalize(name)
}

// DefaultCategory returns the current default category name. ok is false
// if no category was ever referenced or chosen.
func (c *Controller) DefaultCategory() (name string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defaultName == nil {
		return "", false
	}
	return *c.defaultName, true
}

// SetDefaults merges the supplied options over the category's stored
// defaults field by field; options not supplied leave their fields
// untouched. The merged defaults seed every later Submit to the category.
func (c *Controller) SetDefaults(name string, opts ...SubmitOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat := c.normalize(name)
	cfg := cat.defaults
	for _, fn := range opts {
		if fn != nil {
			fn(&cfg)
		}
	}
	if cfg.amount <= 0 {
		return &ConfigError{Category: cat.name, Amount: cfg.amount}
	}
	if err := cfg.validateRate(cat.name); err != nil {
		return err
	}

	cat.applyCategorySettings(&cfg)
	cfg.drainFn = nil
	cfg.rateSet = false
	cfg.category = ""
	cat.defaults = cfg
	return nil
}

// OnDrain registers fn as the category's idle notification, invoked with
// the category name whenever its queue empties and consumed reaches zero.
// One callback per category; registering replaces, nil unregisters.
func (c *Controller) OnDrain(name string, fn func(category string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.normalize(name).onDrain = fn
}
