package gate

import (
	"log/slog"

	"golang.org/x/time/rate"
)

type options struct {
	logger          *Logger
	metrics         MetricsCollector
	initialCapacity int64
}

// Option configures Controller construction.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithInitialCapacity sets the capacity given to lazily created categories.
// The default is 1; values below 1 are ignored.
func WithInitialCapacity(capacity int64) Option {
	return func(o *options) {
		if capacity >= 1 {
			o.initialCapacity = capacity
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:          NoopLogger(),
		metrics:         NoopMetricsCollector{},
		initialCapacity: 1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// submitConfig is the resolved per-request configuration. A copy of it,
// minus the request-only fields, also serves as a category's stored
// defaults: SetDefaults overlays options on the stored copy, and Submit
// overlays its options on top of that, so unspecified fields inherit.
type submitConfig struct {
	category     string
	amount       int64
	args         []any
	curryRelease bool
	debug        bool
	unshift      bool

	// category-level settings, applied when present
	drainFn   func(category string)
	rateLimit rate.Limit
	rateBurst int
	rateSet   bool
}

// SubmitOption configures a single submission, or, through SetDefaults,
// the defaults of a category.
type SubmitOption func(*submitConfig)

// WithCategory routes the submission to the named category.
// Absent (or empty), the current default category is used.
func WithCategory(category string) SubmitOption {
	return func(c *submitConfig) {
		c.category = category
	}
}

// WithAmount sets the amount the request consumes against its category's
// capacity while running. The category default applies when unset; a fresh
// category defaults to 1.
func WithAmount(amount int64) SubmitOption {
	return func(c *submitConfig) {
		c.amount = amount
	}
}

// WithArgs sets the arguments the callback is invoked with.
func WithArgs(args ...any) SubmitOption {
	return func(c *submitConfig) {
		c.args = args
	}
}

// WithCurryRelease controls whether the request's *Token is prepended to
// the callback arguments, letting the callback release itself.
func WithCurryRelease(curry bool) SubmitOption {
	return func(c *submitConfig) {
		c.curryRelease = curry
	}
}

// WithDebug controls whether the request keeps a bookkeeping snapshot,
// readable through Token.Debug.
func WithDebug(debug bool) SubmitOption {
	return func(c *submitConfig) {
		c.debug = debug
	}
}

// WithUnshift controls whether the request is inserted at the front of the
// queue instead of the back. A front-inserted request is considered before
// everything queued, but never preempts running work.
func WithUnshift(unshift bool) SubmitOption {
	return func(c *submitConfig) {
		c.unshift = unshift
	}
}

// WithDrainFunc registers fn as the category's drain callback, invoked with
// the category name whenever the category becomes fully idle. One callback
// per category; registering replaces the previous one.
func WithDrainFunc(fn func(category string)) SubmitOption {
	return func(c *submitConfig) {
		c.drainFn = fn
	}
}

// WithAdmissionRate attaches a rate limiter to the category, smoothing how
// fast queued requests are admitted even when capacity is free. A finite
// limit needs a burst of at least 1; SetDefaults and Submit reject the
// pairing with a ConfigError otherwise. Use rate.Inf to remove a
// previously set limit.
func WithAdmissionRate(limit rate.Limit, burst int) SubmitOption {
	return func(c *submitConfig) {
		c.rateLimit = limit
		c.rateBurst = burst
		c.rateSet = true
	}
}

// validateRate rejects a finite admission rate whose burst is below 1:
// such a limiter would deny every reservation without ever scheduling a
// retry, stranding queued requests silently.
func (c *submitConfig) validateRate(category string) error {
	if c.rateSet && c.rateLimit != rate.Inf && c.rateBurst < 1 {
		return &ConfigError{Category: category, Amount: int64(c.rateBurst), Rate: true}
	}
	return nil
}
