package clip

import (
	"fmt"
	"iter"

	"github.com/gogpu/clipchain"
)

// SourcesIndex addresses a Sources inside a Store. Indices stay valid until
// the store is recycled.
type SourcesIndex int

// Store owns every Sources of a scene.
type Store struct {
	sources []*Sources
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Insert adds s and returns its index.
func (st *Store) Insert(s *Sources) SourcesIndex {
	st.sources = append(st.sources, s)
	return SourcesIndex(len(st.sources) - 1)
}

// Get returns the sources at idx. It panics if idx was not returned by
// Insert since the last Recycle.
func (st *Store) Get(idx SourcesIndex) *Sources {
	if idx < 0 || int(idx) >= len(st.sources) {
		panic(fmt.Sprintf("clip: bug: sources index %d out of range [0, %d)", idx, len(st.sources)))
	}
	return st.sources[idx]
}

// Len returns the number of stored collections.
func (st *Store) Len() int {
	return len(st.sources)
}

// All iterates over every stored collection in insertion order.
func (st *Store) All() iter.Seq2[SourcesIndex, *Sources] {
	return func(yield func(SourcesIndex, *Sources) bool) {
		for i, s := range st.sources {
			if !yield(SourcesIndex(i), s) {
				return
			}
		}
	}
}

// Recycle drops every collection and keeps the allocated capacity for the
// next scene. Previously returned indices become invalid.
func (st *Store) Recycle() {
	n := len(st.sources)
	clear(st.sources)
	st.sources = st.sources[:0]
	clipchain.Logger().Debug("clip: store recycled", "sources", n, "capacity", cap(st.sources))
}
