// Package intern maps library names to dense uint32 identifiers.
package intern

import (
	"fmt"
	"math"
)

// Interner is append-only working state for a single analysis run.
// It owns its copies of every name, so it outlives the tree it was fed from.
type Interner struct {
	limit uint32
	ids   map[string]uint32
	names []string
}

func New() *Interner {
	return newWithLimit(math.MaxUint32)
}

func newWithLimit(limit uint32) *Interner {
	return &Interner{
		limit: limit,
		ids:   make(map[string]uint32),
	}
}

// Intern returns the id already bound to name, or binds the next free id.
// Running out of identifiers is an invariant violation and panics.
func (in *Interner) Intern(name string) uint32 {
	if id, ok := in.ids[name]; ok {
		return id
	}
	next := uint32(len(in.names))
	if uint64(len(in.names)) >= uint64(in.limit) {
		panic(fmt.Sprintf("intern: identifier space exhausted at %d names", len(in.names)))
	}
	owned := string([]byte(name))
	in.ids[owned] = next
	in.names = append(in.names, owned)
	return next
}

// Resolve returns the name bound to id.
func (in *Interner) Resolve(id uint32) (string, bool) {
	if uint64(id) >= uint64(len(in.names)) {
		return "", false
	}
	return in.names[id], true
}

// MustResolve is Resolve for ids known to come from this interner.
func (in *Interner) MustResolve(id uint32) string {
	name, ok := in.Resolve(id)
	if !ok {
		panic(fmt.Sprintf("intern: unknown id %d", id))
	}
	return name
}

// Lookup reports the id of name without allocating one.
func (in *Interner) Lookup(name string) (uint32, bool) {
	id, ok := in.ids[name]
	return id, ok
}

func (in *Interner) Len() int {
	return len(in.names)
}
