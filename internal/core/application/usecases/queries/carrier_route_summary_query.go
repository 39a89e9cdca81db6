package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCarrierRouteSummaryQueryIsNotConstructed = errors.New(
	"CarrierRouteSummaryQuery must be created via NewCarrierRouteSummaryQuery constructor",
)

// CarrierRouteSummaryQuery shows, for each active carrier, the routes it runs
// on every delivery date across all orders.
type CarrierRouteSummaryQuery struct {
	guard guard.ConstructorGuard
}

func NewCarrierRouteSummaryQuery() CarrierRouteSummaryQuery {
	return CarrierRouteSummaryQuery{guard: guard.NewConstructorGuard()}
}

func (q CarrierRouteSummaryQuery) Validate() error {
	return q.guard.Validate(ErrCarrierRouteSummaryQueryIsNotConstructed)
}

// CarrierRouteSummary lists route names by delivery date (YYYY-MM-DD).
// Names are unique and sorted within a date.
type CarrierRouteSummary struct {
	CarrierID    kernel.UUID
	CarrierName  string
	RoutesByDate map[string][]string
}
