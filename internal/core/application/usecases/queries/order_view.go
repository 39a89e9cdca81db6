// Package queries contains read operations for retrieving dispatch state.
// Queries run outside any unit of work and return flat read models.
package queries

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
)

// OrderView is the read model of one order.
type OrderView struct {
	ID             kernel.UUID
	ManifestNumber string
	Carrier        reference.Link
	Zone           *reference.Link
	Route          *reference.Link
	Group          *reference.Link
	Status         string
	Stage          string
	LoadPriority   *int
	Quantity       int
	DeliveryDate   time.Time
	CreatedBy      string
	CreatedByName  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PreparationAt  *time.Time
	ControlAt      *time.Time
	ReadyToLoadAt  *time.Time
	EnqueuedAt     *time.Time
	FinalizedAt    *time.Time
	Controlled     bool
	ControlledBy   string
	FinalizedBy    string
}

// NewOrderView flattens an aggregate. Command results are rendered with it too.
func NewOrderView(o *order.Order) OrderView {
	s := o.Snapshot()
	return OrderView{
		ID:             s.ID,
		ManifestNumber: s.ManifestNumber,
		Carrier:        s.Carrier,
		Zone:           s.Zone,
		Route:          s.Route,
		Group:          s.Group,
		Status:         s.Status.String(),
		Stage:          s.Stage.String(),
		LoadPriority:   s.Rank,
		Quantity:       s.Quantity,
		DeliveryDate:   s.DeliveryDate,
		CreatedBy:      s.CreatedBy,
		CreatedByName:  s.CreatedByName,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		PreparationAt:  s.PreparationAt,
		ControlAt:      s.ControlAt,
		ReadyToLoadAt:  s.ReadyToLoadAt,
		EnqueuedAt:     s.EnqueuedAt,
		FinalizedAt:    s.FinalizedAt,
		Controlled:     s.Controlled,
		ControlledBy:   s.ControlledBy,
		FinalizedBy:    s.FinalizedBy,
	}
}

func newOrderViews(list []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(list))
	for _, o := range list {
		views = append(views, NewOrderView(o))
	}
	return views
}
