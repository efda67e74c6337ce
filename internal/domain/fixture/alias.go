package fixture

import (
	"strings"
	"sync/atomic"
)

// Ref is what an alias lookup resolves to: the canonical key plus everything
// the live-score pipeline needs downstream.
type Ref struct {
	CanonicalKey string
	Slug         string
	Fixture      Fixture
}

// Duplicate records a fixture whose canonical key collided with one already
// indexed. The first fixture wins; the duplicate is dropped.
type Duplicate struct {
	CanonicalKey string
	Kept         Fixture
	Dropped      Fixture
}

// Index is an immutable alias lookup table built from a full fixture set.
// Every alias (ref id, composite key, slug) points at the owning fixture's
// canonical key. Lookups are case-insensitive.
type Index struct {
	byAlias map[string]Ref
	keys    map[string]Fixture
}

// BuildIndex indexes every alias of every fixture. Fixtures that produce no
// canonical key at all are skipped. A second fixture resolving to an already
// taken canonical key is rejected and reported, never silently merged.
func BuildIndex(fixtures []Fixture) (*Index, []Duplicate) {
	idx := &Index{
		byAlias: make(map[string]Ref, len(fixtures)*2),
		keys:    make(map[string]Fixture, len(fixtures)),
	}

	var duplicates []Duplicate
	for _, f := range fixtures {
		key := f.CanonicalKey()
		if key == "" {
			continue
		}
		if kept, taken := idx.keys[key]; taken {
			duplicates = append(duplicates, Duplicate{
				CanonicalKey: key,
				Kept:         kept,
				Dropped:      f,
			})
			continue
		}
		idx.keys[key] = f

		ref := Ref{
			CanonicalKey: key,
			Slug:         strings.TrimSpace(f.Slug),
			Fixture:      f,
		}
		for _, alias := range f.Aliases() {
			idx.byAlias[alias] = ref
		}
	}

	return idx, duplicates
}

// Resolve maps any identifier a caller might present to the canonical ref.
// A miss is an expected outcome, not an error.
func (i *Index) Resolve(identifier string) (Ref, bool) {
	if i == nil {
		return Ref{}, false
	}
	alias := strings.ToLower(strings.TrimSpace(identifier))
	if alias == "" {
		return Ref{}, false
	}
	ref, ok := i.byAlias[alias]
	return ref, ok
}

// Len reports how many canonical keys the index holds.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.keys)
}

// Fixtures returns the indexed fixture set.
func (i *Index) Fixtures() []Fixture {
	if i == nil {
		return nil
	}
	out := make([]Fixture, 0, len(i.keys))
	for _, f := range i.keys {
		out = append(out, f)
	}
	return out
}

// AliasTable publishes an Index behind an atomically swappable pointer.
// Readers always observe one complete snapshot; a rebuild replaces the whole
// index, it never mutates in place.
type AliasTable struct {
	current atomic.Pointer[Index]
}

func NewAliasTable(idx *Index) *AliasTable {
	t := &AliasTable{}
	if idx == nil {
		idx = &Index{}
	}
	t.current.Store(idx)
	return t
}

func (t *AliasTable) Resolve(identifier string) (Ref, bool) {
	return t.current.Load().Resolve(identifier)
}

func (t *AliasTable) Snapshot() *Index {
	return t.current.Load()
}

// Replace swaps in a freshly built index.
func (t *AliasTable) Replace(idx *Index) {
	if idx == nil {
		idx = &Index{}
	}
	t.current.Store(idx)
}
