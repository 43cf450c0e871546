package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmind/backend/domain"
)

type stubExtractor struct {
	name string
}

func (s *stubExtractor) ParseTasks(ctx context.Context, apiKey, text string) ([]domain.Task, error) {
	return nil, nil
}

func (s *stubExtractor) TestConnection(ctx context.Context, apiKey string) error {
	return nil
}

func (s *stubExtractor) Name() string { return s.name }

func newTestRegistry() (*Registry, *stubExtractor, *stubExtractor) {
	a := &stubExtractor{name: "Alpha"}
	b := &stubExtractor{name: "Beta"}
	r := NewRegistry("alpha-v1", []Entry{
		{ID: "alpha-v1", DisplayName: "Alpha V1", Extractor: a},
		{ID: "beta-v2", DisplayName: "Beta V2", Extractor: b},
	})
	return r, a, b
}

func TestRegistry_Get(t *testing.T) {
	r, a, b := newTestRegistry()

	assert.Same(t, a, r.Get("alpha-v1"))
	assert.Same(t, b, r.Get("beta-v2"))
}

func TestRegistry_GetIsCaseInsensitive(t *testing.T) {
	r, _, b := newTestRegistry()

	assert.Same(t, b, r.Get("Beta-V2"))
	assert.Same(t, b, r.Get("BETA-V2"))
	assert.Same(t, b, r.Get("  beta-v2  "))
}

func TestRegistry_UnknownFallsBackToDefault(t *testing.T) {
	r, a, _ := newTestRegistry()

	for _, id := range []string{"", "gamma", "alpha-v9", "garbled id"} {
		got := r.Get(id)
		require.NotNil(t, got, "identifier %q must never resolve to nil", id)
		assert.Same(t, a, got, "identifier %q should resolve to the default", id)
	}
}

func TestRegistry_DefaultFallsBackToFirstEntry(t *testing.T) {
	a := &stubExtractor{name: "Alpha"}
	r := NewRegistry("does-not-exist", []Entry{
		{ID: "alpha-v1", DisplayName: "Alpha V1", Extractor: a},
	})
	assert.Same(t, a, r.Get("whatever"))
}

func TestRegistry_EmptyEntriesPanics(t *testing.T) {
	assert.Panics(t, func() { NewRegistry("anything", nil) })
	assert.Panics(t, func() { NewRegistry("anything", []Entry{}) })
}

func TestRegistry_SupportedOrder(t *testing.T) {
	r, _, _ := newTestRegistry()

	infos := r.Supported()
	require.Len(t, infos, 2)
	assert.Equal(t, Info{ID: "alpha-v1", DisplayName: "Alpha V1"}, infos[0])
	assert.Equal(t, Info{ID: "beta-v2", DisplayName: "Beta V2"}, infos[1])
}
