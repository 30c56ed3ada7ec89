package registry

import (
	"log/slog"
	"testing"

	"github.com/dwellwatch/dwellwatch/pkg/sinks/console"
	"github.com/dwellwatch/dwellwatch/pkg/sources/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	r := NewRegistry(slog.Default())
	r.RegisterSource(fixture.NewFactory())
	r.RegisterSink(console.NewFactory())

	return r
}

func TestRegistry_CreateSource(t *testing.T) {
	r := newTestRegistry()

	source, err := r.CreateSource("fixture", nil)
	require.NoError(t, err)
	assert.NotNil(t, source)
}

func TestRegistry_CreateSource_UnknownType(t *testing.T) {
	r := newTestRegistry()

	_, err := r.CreateSource("hl7v2", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
	assert.Contains(t, err.Error(), "fixture")
}

func TestRegistry_CreateSource_InvalidConfig(t *testing.T) {
	r := newTestRegistry()

	// "path" must be a string per the fixture factory schema.
	_, err := r.CreateSource("fixture", map[string]any{"path": 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration")
}

func TestRegistry_CreateSink(t *testing.T) {
	r := newTestRegistry()

	sink, err := r.CreateSink("console", nil)
	require.NoError(t, err)
	assert.NotNil(t, sink)
}

func TestRegistry_CreateSink_UnknownType(t *testing.T) {
	r := newTestRegistry()

	_, err := r.CreateSink("pager", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_IDs(t *testing.T) {
	r := newTestRegistry()

	assert.Equal(t, []string{"fixture"}, r.SourceIDs())
	assert.Equal(t, []string{"console"}, r.SinkIDs())
}
