package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrListReceivedTodayQueryIsNotConstructed = errors.New(
	"ListReceivedTodayQuery must be created via NewListReceivedTodayQuery constructor",
)

// ListReceivedTodayQuery lists the orders created since local midnight.
type ListReceivedTodayQuery struct {
	guard guard.ConstructorGuard
}

func NewListReceivedTodayQuery() ListReceivedTodayQuery {
	return ListReceivedTodayQuery{guard: guard.NewConstructorGuard()}
}

func (q ListReceivedTodayQuery) Validate() error {
	return q.guard.Validate(ErrListReceivedTodayQueryIsNotConstructed)
}
