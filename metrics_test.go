package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := New(WithMetricsCollector(metrics))
	require.NoError(t, c.SetCapacity("m", 1))

	// Rejected submission.
	_, err := c.Submit(context.Background(), nil, WithCategory("m"))
	require.Error(t, err)

	// Admitted inline.
	tok1, err := c.Submit(context.Background(), func(ctx context.Context, args ...any) {}, WithCategory("m"))
	require.NoError(t, err)

	// Queued, then canceled.
	tok2, err := c.Submit(context.Background(), func(ctx context.Context, args ...any) {}, WithCategory("m"))
	require.NoError(t, err)
	tok2.Release()

	// Released; the category drains.
	tok1.Release()

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.SubmitCount)
	assert.Equal(t, int64(1), stats.SubmitErrors)
	assert.Equal(t, int64(1), stats.AdmitCount)
	assert.Equal(t, int64(2), stats.ReleaseCount)
	assert.Equal(t, int64(1), stats.CancelCount)
	assert.Equal(t, int64(1), stats.DrainCount)
}

func TestNoopMetricsCollector(t *testing.T) {
	// The default collector must accept every record without effect.
	c := New(WithMetricsCollector(nil))
	tok, err := c.Submit(context.Background(), func(ctx context.Context, args ...any) {})
	require.NoError(t, err)
	tok.Release()
}
