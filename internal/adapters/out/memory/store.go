// Package memory is a transactional in-process store. It serves the memory
// storage driver and the end-to-end tests of the command handlers.
//
// A unit of work copies the committed state on Begin, works on the copy and
// swaps it in on Commit. Units of work are serialized, so the copy never goes
// stale; readers always see the last committed state.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type referenceRecord struct {
	id     kernel.UUID
	kind   reference.Kind
	name   string
	active bool
}

type state struct {
	orders     map[kernel.UUID]order.Snapshot
	references map[kernel.UUID]referenceRecord
	manifests  map[string]kernel.UUID
}

func newState() state {
	return state{
		orders:     map[kernel.UUID]order.Snapshot{},
		references: map[kernel.UUID]referenceRecord{},
		manifests:  map[string]kernel.UUID{},
	}
}

// clone copies the maps. Snapshots hold pointers that are never mutated in
// place, so a shallow copy of each value is enough.
func (s state) clone() state {
	c := state{
		orders:     make(map[kernel.UUID]order.Snapshot, len(s.orders)),
		references: make(map[kernel.UUID]referenceRecord, len(s.references)),
		manifests:  make(map[string]kernel.UUID, len(s.manifests)),
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.references {
		c.references[k] = v
	}
	for k, v := range s.manifests {
		c.manifests[k] = v
	}
	return c
}

// Store owns the committed state.
type Store struct {
	mu    sync.RWMutex
	state state

	// tx admits one unit of work at a time.
	tx chan struct{}
}

var (
	_ ports.OrderReader     = (*Store)(nil)
	_ ports.ReferenceReader = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		state: newState(),
		tx:    make(chan struct{}, 1),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.tx <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.tx
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) replace(next state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
}

func (s *Store) GetOrder(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getOrder(s.state, id)
}

func (s *Store) ListOrders(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]order.Snapshot, 0, len(s.state.orders))
	for _, snap := range s.state.orders {
		if matches(filter, snap) {
			matched = append(matched, snap)
		}
	}
	slices.SortFunc(matched, comparer(filter.Sort))

	return restoreAll(matched)
}

func (s *Store) ListReferences(_ context.Context, kind reference.Kind, activeOnly bool) ([]*reference.Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]referenceRecord, 0)
	for _, r := range s.state.references {
		if r.kind == kind && (!activeOnly || r.active) {
			records = append(records, r)
		}
	}
	slices.SortFunc(records, func(a, b referenceRecord) int {
		if c := cmp.Compare(reference.NormalizeName(a.name), reference.NormalizeName(b.name)); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})

	list := make([]*reference.Reference, 0, len(records))
	for _, r := range records {
		ref, err := r.restore()
		if err != nil {
			return nil, err
		}
		list = append(list, ref)
	}
	return list, nil
}

func (r referenceRecord) restore() (*reference.Reference, error) {
	return reference.RestoreReference(r.id, r.kind, r.name, r.active)
}

func getOrder(st state, id kernel.UUID) (*order.Order, error) {
	snap, ok := st.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(snap)
}

func restoreAll(snaps []order.Snapshot) ([]*order.Order, error) {
	list := make([]*order.Order, 0, len(snaps))
	for _, snap := range snaps {
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, nil
}

func matches(filter ports.OrderFilter, s order.Snapshot) bool {
	if filter.Status != nil && s.Status != *filter.Status {
		return false
	}
	if filter.Ranked != nil && (s.Rank != nil) != *filter.Ranked {
		return false
	}
	if filter.CreatedFrom != nil && s.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedBefore != nil && !s.CreatedAt.Before(*filter.CreatedBefore) {
		return false
	}
	return true
}

func comparer(sort ports.OrderSort) func(a, b order.Snapshot) int {
	byID := func(a, b order.Snapshot) int { return cmp.Compare(a.ID.String(), b.ID.String()) }
	return func(a, b order.Snapshot) int {
		var c int
		switch sort {
		case ports.SortOldestFirst:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case ports.SortRecentlyUpdated:
			c = b.UpdatedAt.Compare(a.UpdatedAt)
		case ports.SortByRank:
			c = cmp.Compare(rankOf(a), rankOf(b))
			if c == 0 {
				c = a.CreatedAt.Compare(b.CreatedAt)
			}
		default:
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		if c != 0 {
			return c
		}
		return byID(a, b)
	}
}

func rankOf(s order.Snapshot) int {
	if s.Rank == nil {
		return 0
	}
	return *s.Rank
}
