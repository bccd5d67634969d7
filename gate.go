package gate

import (
	"context"
	"sync"
	"time"
)

// Controller is an admission controller over named capacity categories.
// Every Controller is independent; create as many as needed.
//
// All methods are safe for concurrent use. Callbacks and drain callbacks
// are invoked without internal locks held, so they may call back into the
// Controller (submit more work, release tokens, change capacity) from any
// goroutine, including their own.
type Controller struct {
	mu sync.Mutex

	categories  map[string]*category
	defaultName *string // nil until a category is referenced or chosen

	globalRunIndex  uint64
	initialCapacity int64

	logger  *Logger
	metrics MetricsCollector
}

// New creates a Controller with no categories. Categories appear lazily as
// they are referenced.
func New(optFns ...Option) *Controller {
	o := applyOptions(optFns)
	return &Controller{
		categories:      make(map[string]*category),
		initialCapacity: o.initialCapacity,
		logger:          o.logger,
		metrics:         o.metrics,
	}
}

// Submit asks for admission of cb against a category's capacity and
// returns the request's release token. The request is queued (at the
// front, with WithUnshift) and the category swept before Submit returns,
// so cb runs inside Submit whenever capacity is already free.
//
// ctx is stored and passed to cb at invocation; a nil ctx means
// context.Background. Submit itself never blocks on capacity.
//
// Submit fails fast: ErrNilCallback without a callback, ConfigError for a
// non-positive amount, and AdmissionError when the amount exceeds the
// category's current capacity and so could never be admitted. On error
// nothing is enqueued.
func (c *Controller) Submit(ctx context.Context, cb Callback, opts ...SubmitOption) (*Token, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// First pass resolves the target category, whose defaults then seed
	// the second pass.
	var route submitConfig
	for _, fn := range opts {
		if fn != nil {
			fn(&route)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cat := c.normalize(route.category)
	cfg := cat.defaults
	for _, fn := range opts {
		if fn != nil {
			fn(&cfg)
		}
	}

	if err := c.validateSubmit(cat, cb, &cfg); err != nil {
		c.metrics.RecordSubmit(cat.name, cfg.amount, err)
		c.logger.LogSubmit(ctx, cat.name, cfg.amount, cfg.unshift, err)
		return nil, err
	}

	cat.applyCategorySettings(&cfg)

	req := &request{
		amount:       cfg.amount,
		callback:     cb,
		ctx:          ctx,
		args:         cfg.args,
		curryRelease: cfg.curryRelease,
		debug:        cfg.debug,
		state:        StateQueued,
		category:     cat,
		queuedAt:     time.Now(),
	}
	req.token = &Token{controller: c, req: req}

	if cfg.unshift {
		req.elem = cat.pending.PushFront(req)
	} else {
		req.elem = cat.pending.PushBack(req)
	}
	cat.idle = false
	req.refreshSnapshot()

	c.metrics.RecordSubmit(cat.name, req.amount, nil)
	c.logger.LogSubmit(ctx, cat.name, req.amount, cfg.unshift, nil)

	c.sweep(cat)
	return req.token, nil
}

func (c *Controller) validateSubmit(cat *category, cb Callback, cfg *submitConfig) error {
	if cb == nil {
		return ErrNilCallback
	}
	if cfg.amount <= 0 {
		return &ConfigError{Category: cat.name, Amount: cfg.amount}
	}
	if cfg.amount > cat.capacity {
		return &AdmissionError{Category: cat.name, Amount: cfg.amount, Capacity: cat.capacity}
	}
	return cfg.validateRate(cat.name)
}
