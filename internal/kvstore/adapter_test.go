package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingSubstrate fails every operation.
type failingSubstrate struct{}

var errSubstrate = errors.New("disk full")

func (failingSubstrate) Get(context.Context, string) (string, bool, error) {
	return "", false, errSubstrate
}
func (failingSubstrate) Set(context.Context, string, string) error { return errSubstrate }
func (failingSubstrate) MultiSet(context.Context, map[string]string) error { return errSubstrate }
func (failingSubstrate) MultiRemove(context.Context, ...string) error { return errSubstrate }
func (failingSubstrate) Update(context.Context, string, UpdateFunc) error { return errSubstrate }
func (failingSubstrate) Close() error { return nil }

type sample struct {
	Name  string   `json:"name"`
	Count float64  `json:"count"`
	Tags  []string `json:"tags"`
}

func TestAdapterJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemorySubstrate(), nil)

	in := sample{Name: "plan", Count: 283.3333333333333, Tags: []string{"a", "b"}}
	require.True(t, SetJSON(ctx, a, "k", in))

	out, err := GetJSON[sample](ctx, a, "k")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestAdapterGetJSONMissing(t *testing.T) {
	a := NewAdapter(NewMemorySubstrate(), nil)

	out, err := GetJSON[sample](context.Background(), a, "nope")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestAdapterGetJSONCorrupt(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemorySubstrate(), nil)
	require.True(t, a.SetString(ctx, "k", "{not json"))

	_, err := GetJSON[sample](ctx, a, "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestAdapterFailuresAreLoggedNotReturned(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.ErrorLevel)
	a := NewAdapter(failingSubstrate{}, zap.New(core))

	v, ok := a.GetString(ctx, "THEME")
	assert.False(t, ok)
	assert.Empty(t, v)

	assert.False(t, a.SetString(ctx, "THEME", "dark"))
	assert.False(t, SetJSON(ctx, a, "k", sample{}))
	assert.False(t, a.SetMany(ctx, map[string]string{"a": "1"}))

	out, err := GetJSON[sample](ctx, a, "k")
	assert.NoError(t, err)
	assert.Nil(t, out)

	assert.ErrorIs(t, a.RemoveMany(ctx, "a"), errSubstrate)

	require.Equal(t, 6, logs.Len())
	assert.Equal(t, "THEME", logs.All()[0].ContextMap()["key"])
}

func TestUpdateJSONCorrupt(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemorySubstrate(), nil)
	require.True(t, a.SetString(ctx, "k", "[1,"))

	err := UpdateJSON(ctx, a, "k", func(cur *[]int) ([]int, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrCorrupt)
}
