package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls  int
	closed bool
}

func (c *countingGenerator) GenerateContent(context.Context, string) (ContentResponse, error) {
	c.calls++
	return ContentResponse{Content: "ok"}, nil
}

func (c *countingGenerator) Close() error {
	c.closed = true
	return nil
}

func TestWithRateLimitDisabled(t *testing.T) {
	base := &countingGenerator{}
	assert.Same(t, base, WithRateLimit(base, 0))
}

func TestWithRateLimitBlocksUntilContextDone(t *testing.T) {
	base := &countingGenerator{}
	gen := WithRateLimit(base, 1)

	_, err := gen.GenerateContent(context.Background(), "first")
	require.NoError(t, err)

	// The next slot is a minute away, so the second call must give up.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gen.GenerateContent(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, 1, base.calls)

	require.NoError(t, gen.(Closer).Close())
	assert.True(t, base.closed)
}
