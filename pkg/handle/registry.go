// Package handle exposes engine objects to a host runtime as opaque,
// generation-checked handles.
//
// A Handle packs a slot index and a generation counter. Releasing a handle
// bumps the slot's generation, so any copy of the handle kept by the host
// goes stale and every later use of it fails with a not-found error rather
// than reaching freed or recycled memory. The engine never releases a
// table or grouping on its own; the host calls Release exactly once.
package handle

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/compute"
	"github.com/arbordata/arbor/pkg/logger"
	"github.com/arbordata/arbor/pkg/table"
)

// Handle is an opaque reference to an engine object. The zero Handle is
// never issued and never resolves.
type Handle uint64

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot))
}

func (h Handle) slot() uint32 { return uint32(h) }
func (h Handle) gen() uint32  { return uint32(h >> 32) }

type entry struct {
	gen      uint32
	live     bool
	tbl      *table.Table
	grouping *compute.Grouping
}

// Registry maps handles to live tables and groupings. It is safe for
// concurrent use; the objects behind the handles follow the engine's own
// concurrency rules (immutable tables, single-threaded derivation).
type Registry struct {
	mu    sync.Mutex
	slots []entry
	free  []uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OpenTable registers a table the registry takes ownership of and returns
// its handle.
func (r *Registry) OpenTable(t *table.Table) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open(entry{tbl: t})
}

// OpenGrouping registers a grouping the registry takes ownership of and
// returns its handle.
func (r *Registry) OpenGrouping(g *compute.Grouping) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open(entry{grouping: g})
}

func (r *Registry) open(e entry) Handle {
	e.live = true
	if n := len(r.free); n > 0 {
		slot := r.free[n-1]
		r.free = r.free[:n-1]
		e.gen = r.slots[slot].gen
		r.slots[slot] = e
		return makeHandle(slot, e.gen)
	}
	e.gen = 1 // generation 0 is reserved so the zero Handle never resolves
	r.slots = append(r.slots, e)
	return makeHandle(uint32(len(r.slots)-1), e.gen)
}

// Table resolves a table handle. Released or stale handles fail with a
// not-found error.
func (r *Registry) Table(h Handle) (*table.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if e.tbl == nil {
		return nil, arborerrors.New(arborerrors.ErrorTypeNotFound, "handle does not refer to a table")
	}
	return e.tbl, nil
}

// Grouping resolves a grouping handle. Released or stale handles fail with
// a not-found error.
func (r *Registry) Grouping(h Handle) (*compute.Grouping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if e.grouping == nil {
		return nil, arborerrors.New(arborerrors.ErrorTypeNotFound, "handle does not refer to a grouping")
	}
	return e.grouping, nil
}

// Release releases the object behind the handle and invalidates the handle.
// A second release of the same handle, or of any stale copy, returns a
// not-found error and touches nothing.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.lookup(h)
	if err != nil {
		return err
	}

	if e.tbl != nil {
		e.tbl.Release()
	}
	if e.grouping != nil {
		e.grouping.Release()
	}

	slot := h.slot()
	r.slots[slot] = entry{gen: e.gen + 1}
	r.free = append(r.free, slot)
	logger.Debug("handle released", zap.Uint64("handle", uint64(h)))
	return nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.slots {
		if e.live {
			n++
		}
	}
	return n
}

func (r *Registry) lookup(h Handle) (entry, error) {
	slot := h.slot()
	if int(slot) >= len(r.slots) {
		return entry{}, arborerrors.New(arborerrors.ErrorTypeNotFound, "unknown handle").
			WithDetail("handle", uint64(h))
	}
	e := r.slots[slot]
	if !e.live || e.gen != h.gen() {
		return entry{}, arborerrors.New(arborerrors.ErrorTypeNotFound, "handle is released or stale").
			WithDetail("handle", uint64(h))
	}
	return e, nil
}
