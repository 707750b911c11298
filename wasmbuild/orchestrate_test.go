package wasmbuild

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDriver is a testify/mock double for Driver, in the style of this
// project's reference stack's own mocked collaborators.
type mockDriver struct {
	mock.Mock
}

func (m *mockDriver) Build(ctx context.Context, req Request) (*Result, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*Result)
	return result, args.Error(1)
}

func TestBuildAll_RunsEveryRequestAndJoins(t *testing.T) {
	t.Parallel()
	cache, err := NewCache(8)
	require.NoError(t, err)

	md := new(mockDriver)
	md.On("Build", mock.Anything, mock.MatchedBy(func(r Request) bool { return r.Lang == LangWAT })).
		Return(&Result{Wasm: []byte{0x00, 0x61, 0x73, 0x6d}, Manifest: &Manifest{}}, nil)
	cache.drivers[LangWAT] = md

	reqs := []Request{
		{Lang: LangWAT, Source: "(module)"},
		{Lang: LangWAT, Source: "(module)"},
	}
	results, err := BuildAll(context.Background(), cache, reqs)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Both requests have identical source, so the cache should have
	// invoked the underlying driver exactly once.
	md.AssertNumberOfCalls(t, "Build", 1)
}

func TestBuildAll_PropagatesDriverError(t *testing.T) {
	t.Parallel()
	cache, err := NewCache(8)
	require.NoError(t, err)

	md := new(mockDriver)
	md.On("Build", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	cache.drivers[LangWAT] = md

	_, err = BuildAll(context.Background(), cache, []Request{{Lang: LangWAT, Source: "(module)"}})
	require.Error(t, err)
}

func TestCache_DistinctSourceIsNotCoalesced(t *testing.T) {
	t.Parallel()
	cache, err := NewCache(8)
	require.NoError(t, err)

	md := new(mockDriver)
	md.On("Build", mock.Anything, mock.Anything).Return(&Result{Wasm: []byte{1}}, nil)
	cache.drivers[LangWAT] = md

	_, err = cache.Build(context.Background(), Request{Lang: LangWAT, Source: "(module)"})
	require.NoError(t, err)
	_, err = cache.Build(context.Background(), Request{Lang: LangWAT, Source: "(module (func))"})
	require.NoError(t, err)

	md.AssertNumberOfCalls(t, "Build", 2)
}
