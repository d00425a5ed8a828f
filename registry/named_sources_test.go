package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/mock"
)

func TestNamedSourcesAddRegistersWithStream(t *testing.T) {
	stream := loghaul.NewStream()
	named := NewNamedSources(stream)

	named.Add("app", mock.NewSource("1"))
	named.Add("audit", mock.NewSource("2"))

	require.Equal(t, 2, stream.SourceCount())
	require.ElementsMatch(t, []string{"app", "audit"}, named.Names())
}

func TestNamedSourcesGetAndRemove(t *testing.T) {
	stream := loghaul.NewStream()
	named := NewNamedSources(stream)

	source := mock.NewSource("1")
	named.Add("app", source)

	got, ok := named.Get("app")
	require.True(t, ok)
	require.Same(t, source, got)

	removed, ok := named.Remove("app")
	require.True(t, ok)
	require.Same(t, source, removed)

	_, ok = named.Get("app")
	require.False(t, ok)

	// Removing the name is bookkeeping only: the source stays live in the
	// Stream until it EOFs on its own.
	require.Equal(t, 1, stream.SourceCount())
}

func TestNamedSourcesRemoveUnknownName(t *testing.T) {
	named := NewNamedSources(loghaul.NewStream())
	_, ok := named.Remove("missing")
	require.False(t, ok)
}
