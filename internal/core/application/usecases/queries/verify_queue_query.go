package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrVerifyQueueQueryIsNotConstructed = errors.New(
	"VerifyQueueQuery must be created via NewVerifyQueueQuery constructor",
)

// VerifyQueueQuery checks that the stored ranks form exactly 1..N.
type VerifyQueueQuery struct {
	guard guard.ConstructorGuard
}

func NewVerifyQueueQuery() VerifyQueueQuery {
	return VerifyQueueQuery{guard: guard.NewConstructorGuard()}
}

func (q VerifyQueueQuery) Validate() error {
	return q.guard.Validate(ErrVerifyQueueQueryIsNotConstructed)
}

// QueueReport describes the stored queue. Problem is nil for a dense queue.
type QueueReport struct {
	Length  int
	Problem error
}

func (r QueueReport) IsDense() bool {
	return r.Problem == nil
}
