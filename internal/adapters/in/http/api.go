package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/reference"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types of the document in openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Link struct {
	ID   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

type NewOrder struct {
	ManifestNumber string              `json:"manifest_number"`
	Carrier        string              `json:"carrier"`
	Zone           string              `json:"zone,omitempty"`
	Route          string              `json:"route"`
	Quantity       int                 `json:"quantity"`
	DeliveryDate   *openapi_types.Date `json:"delivery_date,omitempty"`
}

// OrderChanges leaves absent fields untouched; an empty zone or route clears it.
type OrderChanges struct {
	ManifestNumber *string             `json:"manifest_number,omitempty"`
	Carrier        *string             `json:"carrier,omitempty"`
	Zone           *string             `json:"zone,omitempty"`
	Route          *string             `json:"route,omitempty"`
	Quantity       *int                `json:"quantity,omitempty"`
	DeliveryDate   *openapi_types.Date `json:"delivery_date,omitempty"`
}

type StateChange struct {
	Status string `json:"status"`
	Stage  string `json:"stage,omitempty"`
}

type GroupAssignment struct {
	GroupID openapi_types.UUID `json:"group_id"`
}

type QueueOrder struct {
	OrderIDs []openapi_types.UUID `json:"order_ids"`
}

type CompactResult struct {
	Renumbered int `json:"renumbered"`
}

type NewReference struct {
	Name string `json:"name"`
}

type Reference struct {
	ID     openapi_types.UUID `json:"id"`
	Kind   string             `json:"kind"`
	Name   string             `json:"name"`
	Active bool               `json:"active"`
}

type CarrierRoutes struct {
	Carrier      Link                `json:"carrier"`
	RoutesByDate map[string][]string `json:"routes_by_date"`
}

type Order struct {
	ID             openapi_types.UUID `json:"id"`
	ManifestNumber string             `json:"manifest_number"`
	Carrier        Link               `json:"carrier"`
	Zone           *Link              `json:"zone,omitempty"`
	Route          *Link              `json:"route,omitempty"`
	Group          *Link              `json:"group,omitempty"`
	Status         string             `json:"status"`
	Stage          string             `json:"stage,omitempty"`
	LoadPriority   *int               `json:"load_priority,omitempty"`
	Quantity       int                `json:"quantity"`
	DeliveryDate   openapi_types.Date `json:"delivery_date"`
	CreatedBy      string             `json:"created_by,omitempty"`
	CreatedByName  string             `json:"created_by_name,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	PreparationAt  *time.Time         `json:"preparation_at,omitempty"`
	ControlAt      *time.Time         `json:"control_at,omitempty"`
	ReadyToLoadAt  *time.Time         `json:"ready_to_load_at,omitempty"`
	EnqueuedAt     *time.Time         `json:"enqueued_at,omitempty"`
	FinalizedAt    *time.Time         `json:"finalized_at,omitempty"`
	Controlled     bool               `json:"controlled"`
	ControlledBy   string             `json:"controlled_by,omitempty"`
	FinalizedBy    string             `json:"finalized_by,omitempty"`
}

func toLink(l reference.Link) Link {
	return Link{ID: l.ID.Bytes(), Name: l.Name}
}

func toOptionalLink(l *reference.Link) *Link {
	if l == nil {
		return nil
	}
	link := toLink(*l)
	return &link
}

func toOrder(v queries.OrderView) Order {
	return Order{
		ID:             v.ID.Bytes(),
		ManifestNumber: v.ManifestNumber,
		Carrier:        toLink(v.Carrier),
		Zone:           toOptionalLink(v.Zone),
		Route:          toOptionalLink(v.Route),
		Group:          toOptionalLink(v.Group),
		Status:         v.Status,
		Stage:          v.Stage,
		LoadPriority:   v.LoadPriority,
		Quantity:       v.Quantity,
		DeliveryDate:   openapi_types.Date{Time: v.DeliveryDate},
		CreatedBy:      v.CreatedBy,
		CreatedByName:  v.CreatedByName,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		PreparationAt:  v.PreparationAt,
		ControlAt:      v.ControlAt,
		ReadyToLoadAt:  v.ReadyToLoadAt,
		EnqueuedAt:     v.EnqueuedAt,
		FinalizedAt:    v.FinalizedAt,
		Controlled:     v.Controlled,
		ControlledBy:   v.ControlledBy,
		FinalizedBy:    v.FinalizedBy,
	}
}

func toOrders(views []queries.OrderView) []Order {
	response := make([]Order, 0, len(views))
	for _, v := range views {
		response = append(response, toOrder(v))
	}
	return response
}

func toReference(v queries.ReferenceView) Reference {
	return Reference{ID: v.ID.Bytes(), Kind: v.Kind, Name: v.Name, Active: v.Active}
}

func dateOf(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
