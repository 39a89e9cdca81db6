// Package orderrepo persists the order aggregate and the manifest ledger with
// GORM. Links to registry entries are stored denormalized as id and name pairs.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ManifestNumber string
	Carrier        LinkDTO `gorm:"embedded;embeddedPrefix:carrier_"`
	Zone           LinkDTO `gorm:"embedded;embeddedPrefix:zone_"`
	Route          LinkDTO `gorm:"embedded;embeddedPrefix:route_"`
	Group          LinkDTO `gorm:"embedded;embeddedPrefix:group_"`
	Status         string
	Stage          string
	LoadPriority   *int
	ParkedPriority *int
	Quantity       int
	DeliveryDate   time.Time `gorm:"type:date"`
	CreatedBy      string
	CreatedByName  string
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
	PreparationAt  *time.Time
	ControlAt      *time.Time
	ReadyToLoadAt  *time.Time
	EnqueuedAt     *time.Time
	FinalizedAt    *time.Time
	Controlled     bool
	ControlledBy   string
	FinalizedBy    string
	Version        int64
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LinkDTO holds an optional registry link. Both columns are null when absent.
type LinkDTO struct {
	ID   *uuid.UUID `gorm:"type:uuid"`
	Name *string
}

func linkFromDomain(link *reference.Link) LinkDTO {
	if link == nil {
		return LinkDTO{}
	}
	id := link.ID.Bytes()
	name := link.Name
	return LinkDTO{ID: &id, Name: &name}
}

func (l LinkDTO) toDomain() (*reference.Link, error) {
	if l.ID == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(l.ID[:])
	if err != nil {
		return nil, err
	}
	link := reference.Link{ID: id}
	if l.Name != nil {
		link.Name = *l.Name
	}
	return &link, nil
}

func fromDomain(aggregate *order.Order) OrderDTO {
	s := aggregate.Snapshot()
	carrier := s.Carrier

	return OrderDTO{
		ID:             s.ID.Bytes(),
		ManifestNumber: s.ManifestNumber,
		Carrier:        linkFromDomain(&carrier),
		Zone:           linkFromDomain(s.Zone),
		Route:          linkFromDomain(s.Route),
		Group:          linkFromDomain(s.Group),
		Status:         s.Status.String(),
		Stage:          s.Stage.String(),
		LoadPriority:   s.Rank,
		ParkedPriority: s.ParkedRank,
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
		Version:        s.Version,
	}
}

// toDomain rebuilds the aggregate. Delivery dates come back from the date
// column at UTC midnight; only the calendar date is meaningful.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	stage, err := order.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}

	links := make([]*reference.Link, 0, 4)
	for _, l := range []LinkDTO{dto.Carrier, dto.Zone, dto.Route, dto.Group} {
		link, linkErr := l.toDomain()
		if linkErr != nil {
			return nil, linkErr
		}
		links = append(links, link)
	}
	var carrier reference.Link
	if links[0] != nil {
		carrier = *links[0]
	}

	return order.RestoreOrder(order.Snapshot{
		ID:             id,
		ManifestNumber: dto.ManifestNumber,
		Carrier:        carrier,
		Zone:           links[1],
		Route:          links[2],
		Group:          links[3],
		Status:         status,
		Stage:          stage,
		Rank:           dto.LoadPriority,
		ParkedRank:     dto.ParkedPriority,
		Quantity:       dto.Quantity,
		DeliveryDate:   kernel.DateOf(dto.DeliveryDate),
		CreatedBy:      dto.CreatedBy,
		CreatedByName:  dto.CreatedByName,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
		PreparationAt:  dto.PreparationAt,
		ControlAt:      dto.ControlAt,
		ReadyToLoadAt:  dto.ReadyToLoadAt,
		EnqueuedAt:     dto.EnqueuedAt,
		FinalizedAt:    dto.FinalizedAt,
		Controlled:     dto.Controlled,
		ControlledBy:   dto.ControlledBy,
		FinalizedBy:    dto.FinalizedBy,
		Version:        dto.Version,
	})
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
