package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/domain/services"
)

// GroupPolicy attaches the preparer's own group when an order enters
// preparation. The group is named after the acting user.
type GroupPolicy struct {
	role kernel.Role
}

// NewGroupPolicy enables the policy for role. An empty role disables it.
func NewGroupPolicy(role kernel.Role) GroupPolicy {
	return GroupPolicy{role: role}
}

func (p GroupPolicy) Applies(actor kernel.Actor, tr order.Transition) bool {
	return tr.BeganPreparation && actor.HasRole(p.role)
}

// lifecycle settles the side effects a state change has outside the order
// itself: its place in the load queue and the group policy.
type lifecycle struct {
	queue  services.LoadQueue
	groups GroupPolicy
}

// settle runs in the caller's unit of work after o moved along tr and returns
// every order that must be persisted, o included.
func (l lifecycle) settle(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	tr order.Transition,
	actor kernel.Actor,
	now time.Time,
) ([]*order.Order, error) {
	changed := []*order.Order{o}
	if tr.IsNoop() {
		return changed, nil
	}

	repo := uow.OrderRepository()
	if tr.VacatedRank != nil || tr.ReturnedToPending {
		ranked, err := repo.GetRanked(ctx)
		if err != nil {
			return nil, err
		}

		var moved []*order.Order
		if tr.VacatedRank != nil {
			moved, err = l.queue.Release(ranked, o, now)
		} else {
			moved, err = l.queue.Readmit(withoutOrder(ranked, o), o, tr, now)
		}
		if err != nil {
			return nil, err
		}
		changed = append(changed, moved...)
	}

	if l.groups.Applies(actor, tr) {
		group, err := resolveReference(ctx, uow.ReferenceRepository(), reference.Group, actor.Name())
		if err != nil {
			return nil, err
		}
		if err = o.AssignGroup(group.Link(), now); err != nil {
			return nil, err
		}
	}

	return changed, nil
}

func withoutOrder(list []*order.Order, o *order.Order) []*order.Order {
	out := make([]*order.Order, 0, len(list))
	for _, item := range list {
		if !item.IsEqual(o) {
			out = append(out, item)
		}
	}
	return out
}
