package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// RevertPolicy decides where an order lands when it returns to PENDING.
type RevertPolicy string

const (
	// RestoreParkedRank re-inserts the order at the rank it held before
	// preparation began, shifting later orders down. Orders that never held a
	// rank go to the tail.
	RestoreParkedRank RevertPolicy = "restore"

	// AppendToTail always places returning orders last.
	AppendToTail RevertPolicy = "append"
)

func ParseRevertPolicy(s string) (RevertPolicy, error) {
	switch p := RevertPolicy(s); p {
	case RestoreParkedRank, AppendToTail:
		return p, nil
	case "":
		return RestoreParkedRank, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("revert policy", fmt.Errorf("%q is not a known policy", s))
	}
}

// LoadQueue is a domain service over the set of ranked pending orders.
//
// Every operation receives the full current queue (all pending orders holding a
// rank) and returns the orders whose rank changed so the caller can persist
// them in the same unit of work. Operations finish by re-checking density from
// the ranks themselves rather than trusting the input.
//
// Example usage:
//
//	queue := services.NewLoadQueue(services.RestoreParkedRank)
//	ranked, _ := repo.GetRanked(ctx)
//	changed, err := queue.Append(ranked, o, time.Now())
//	if err != nil {
//	    return err
//	}
//	for _, c := range changed {
//	    _ = repo.Update(ctx, c)
//	}
type LoadQueue struct {
	policy RevertPolicy
}

func NewLoadQueue(policy RevertPolicy) LoadQueue {
	if policy == "" {
		policy = RestoreParkedRank
	}
	return LoadQueue{policy: policy}
}

func (q LoadQueue) Policy() RevertPolicy {
	return q.policy
}

// Sort orders ranked orders by rank, then creation time, then id.
func Sort(ranked []*order.Order) {
	slices.SortStableFunc(ranked, func(a, b *order.Order) int {
		if c := cmp.Compare(rankOf(a), rankOf(b)); c != 0 {
			return c
		}
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
}

// Verify checks that ranked holds only pending orders whose ranks are exactly 1..N.
func (q LoadQueue) Verify(ranked []*order.Order) error {
	seen := make(map[int]kernel.UUID, len(ranked))
	for _, o := range ranked {
		if o.Status() != order.Pending {
			return errs.NewValueIsInvalidErrorWithCause(
				"load queue",
				fmt.Errorf("order %s holds a rank while %s", o.ID(), o.State()),
			)
		}
		r := o.Rank()
		if r == nil {
			return errs.NewValueIsInvalidErrorWithCause("load queue", fmt.Errorf("order %s has no rank", o.ID()))
		}
		if *r < 1 || *r > len(ranked) {
			return errs.NewValueIsOutOfRangeError("rank", *r, 1, len(ranked))
		}
		if other, dup := seen[*r]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"load queue",
				fmt.Errorf("rank %d is held by %s and %s", *r, other, o.ID()),
			)
		}
		seen[*r] = o.ID()
	}
	return nil
}

// Compact renumbers the queue to 1..N keeping its relative order. It repairs
// gaps and duplicates and is a no-op on a dense queue.
func (q LoadQueue) Compact(ranked []*order.Order, now time.Time) ([]*order.Order, error) {
	queue := slices.Clone(ranked)
	Sort(queue)
	changed, err := renumber(queue, now)
	if err != nil {
		return nil, err
	}
	return changed, q.Verify(queue)
}

// Append puts o after every ranked order.
func (q LoadQueue) Append(ranked []*order.Order, o *order.Order, now time.Time) ([]*order.Order, error) {
	if err := q.checkJoinable(o); err != nil {
		return nil, err
	}

	maxRank := 0
	for _, r := range ranked {
		maxRank = max(maxRank, rankOf(r))
	}
	if err := o.PlaceInQueue(maxRank+1, now); err != nil {
		return nil, err
	}

	return []*order.Order{o}, q.Verify(append(slices.Clone(ranked), o))
}

// Insert places o at position (clamped to 1..N+1) and shifts later orders down.
func (q LoadQueue) Insert(
	ranked []*order.Order,
	o *order.Order,
	position int,
	now time.Time,
) ([]*order.Order, error) {
	if err := q.checkJoinable(o); err != nil {
		return nil, err
	}

	queue := slices.Clone(ranked)
	Sort(queue)
	position = min(max(position, 1), len(queue)+1)
	queue = slices.Insert(queue, position-1, o)

	changed, err := renumber(queue, now)
	if err != nil {
		return nil, err
	}
	return changed, q.Verify(queue)
}

// Remove takes o out of the queue and closes the gap. Removing an unranked
// order changes nothing.
func (q LoadQueue) Remove(ranked []*order.Order, o *order.Order, now time.Time) ([]*order.Order, error) {
	if !o.LeaveQueue(now) {
		return nil, nil
	}
	return q.close(ranked, o, now)
}

// Release compacts the queue after o left it through a lifecycle move.
func (q LoadQueue) Release(ranked []*order.Order, o *order.Order, now time.Time) ([]*order.Order, error) {
	return q.close(ranked, o, now)
}

// Readmit places an order that just returned to PENDING according to the policy.
func (q LoadQueue) Readmit(
	ranked []*order.Order,
	o *order.Order,
	tr order.Transition,
	now time.Time,
) ([]*order.Order, error) {
	if !tr.ReturnedToPending {
		return nil, nil
	}
	if q.policy == RestoreParkedRank && tr.RestoreRank != nil {
		return q.Insert(ranked, o, *tr.RestoreRank, now)
	}
	return q.Append(ranked, o, now)
}

// Reorder makes selected the whole queue, ranked 1..len(selected) in the given
// order. Previously ranked orders missing from selected lose their rank.
func (q LoadQueue) Reorder(
	ranked []*order.Order,
	selected []*order.Order,
	now time.Time,
) ([]*order.Order, error) {
	picked := make(map[kernel.UUID]struct{}, len(selected))
	for _, o := range selected {
		if _, dup := picked[o.ID()]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("order ids", fmt.Errorf("order %s is listed twice", o.ID()))
		}
		picked[o.ID()] = struct{}{}
		if o.Status() != order.Pending {
			return nil, errs.NewInvalidTransitionError("rank", "queue", o.State().String())
		}
	}

	changes := newChangeSet()
	for _, o := range ranked {
		if _, keep := picked[o.ID()]; !keep && o.LeaveQueue(now) {
			changes.add(o)
		}
	}
	for i, o := range selected {
		before := rankOf(o)
		if err := o.PlaceInQueue(i+1, now); err != nil {
			return nil, err
		}
		if before != i+1 {
			changes.add(o)
		}
	}

	return changes.list(), q.Verify(selected)
}

func (q LoadQueue) checkJoinable(o *order.Order) error {
	if o.Status() != order.Pending {
		return errs.NewInvalidTransitionError("append", "queue tail", o.State().String())
	}
	if o.IsRanked() {
		return errs.NewValueIsInvalidErrorWithCause(
			"load queue",
			fmt.Errorf("order %s already holds rank %d", o.ID(), rankOf(o)),
		)
	}
	return nil
}

func (q LoadQueue) close(ranked []*order.Order, gone *order.Order, now time.Time) ([]*order.Order, error) {
	rest := slices.DeleteFunc(slices.Clone(ranked), func(o *order.Order) bool {
		return o.IsEqual(gone)
	})
	changed, err := q.Compact(rest, now)
	if err != nil {
		return nil, err
	}
	return append([]*order.Order{gone}, changed...), nil
}

// renumber expects queue in final order.
func renumber(queue []*order.Order, now time.Time) ([]*order.Order, error) {
	changes := newChangeSet()
	for i, o := range queue {
		if rankOf(o) == i+1 {
			continue
		}
		if err := o.PlaceInQueue(i+1, now); err != nil {
			return nil, err
		}
		changes.add(o)
	}
	return changes.list(), nil
}

func rankOf(o *order.Order) int {
	if r := o.Rank(); r != nil {
		return *r
	}
	return 0
}

type changeSet struct {
	seen  map[kernel.UUID]struct{}
	items []*order.Order
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[kernel.UUID]struct{})}
}

func (c *changeSet) add(o *order.Order) {
	if _, ok := c.seen[o.ID()]; ok {
		return
	}
	c.seen[o.ID()] = struct{}{}
	c.items = append(c.items, o)
}

func (c *changeSet) list() []*order.Order {
	return c.items
}
