// Package registry gives callers a way to address a source after it has
// been inserted: a Stream only ever appends sources and never names them,
// which leaves anyone managing a fleet tracking identities on the side.
// NamedSources layers names on top of loghaul.Stream without touching its
// insertion-order slice or its Step/Poll contract: it calls
// Stream.AddSource exactly as any external collaborator would, and never
// special-cases sources during a step.
package registry

import (
	cmap "github.com/orcaman/concurrent-map"

	"github.com/shadowmint/loghaul"
)

// NamedSources is a concurrency-safe name -> Source identity wrapper over
// a Stream. It is pure sugar over Stream.AddSource; it holds no reference
// the Stream doesn't already own, so removing a name here does not pull
// the Source back out of a Stream mid-step (sources only ever leave the
// live set on EOF). Remove only forgets the name-to-identity mapping a
// caller registered for its own bookkeeping.
type NamedSources struct {
	stream *loghaul.Stream
	names  cmap.ConcurrentMap
}

// NewNamedSources wraps stream.
func NewNamedSources(stream *loghaul.Stream) *NamedSources {
	return &NamedSources{stream: stream, names: cmap.New()}
}

// Add registers source under name and appends it to the underlying Stream.
// A duplicate name overwrites the previous mapping, but does not remove
// the previous source from the Stream itself; only a subsequent EOF does
// that.
func (n *NamedSources) Add(name string, source loghaul.Source) {
	n.names.Set(name, source)
	n.stream.AddSource(source)
}

// Remove forgets name's mapping, returning the Source it pointed to (if
// any) and whether it was present. This does not remove the Source from
// the live Stream; callers that want that must let it EOF naturally or
// avoid ever reinserting it after resume.
func (n *NamedSources) Remove(name string) (loghaul.Source, bool) {
	source, ok := n.get(name)
	if ok {
		n.names.Remove(name)
	}
	return source, ok
}

// Get looks up the Source registered under name.
func (n *NamedSources) Get(name string) (loghaul.Source, bool) {
	return n.get(name)
}

func (n *NamedSources) get(name string) (loghaul.Source, bool) {
	v, ok := n.names.Get(name)
	if !ok {
		return nil, false
	}
	return v.(loghaul.Source), true
}

// Names returns every currently registered name, in no particular order.
func (n *NamedSources) Names() []string {
	return n.names.Keys()
}
