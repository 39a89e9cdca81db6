// Package notify delivers order change events to watchers. Drivers publish
// the same JSON message to kafka, redis pub/sub or the log; Async decouples
// delivery from the command that caused the change.
package notify

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
)

// Message is the wire form of an ports.OrderEvent.
type Message struct {
	Type       string        `json:"type"`
	OrderID    string        `json:"order_id"`
	OccurredAt time.Time     `json:"occurred_at"`
	Order      *OrderPayload `json:"order,omitempty"`
}

type LinkPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderPayload struct {
	ManifestNumber string       `json:"manifest_number"`
	Carrier        LinkPayload  `json:"carrier"`
	Zone           *LinkPayload `json:"zone,omitempty"`
	Route          *LinkPayload `json:"route,omitempty"`
	Group          *LinkPayload `json:"group,omitempty"`
	Status         string       `json:"status"`
	Stage          string       `json:"stage,omitempty"`
	LoadPriority   *int         `json:"load_priority,omitempty"`
	Quantity       int          `json:"quantity"`
	DeliveryDate   string       `json:"delivery_date"`
	Controlled     bool         `json:"controlled"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Version        int64        `json:"version"`
}

func NewMessage(event ports.OrderEvent) Message {
	msg := Message{
		Type:       string(event.Type),
		OrderID:    event.OrderID.String(),
		OccurredAt: event.OccurredAt,
	}
	if s := event.Order; s != nil {
		msg.Order = &OrderPayload{
			ManifestNumber: s.ManifestNumber,
			Carrier:        linkPayload(s.Carrier),
			Zone:           optionalLink(s.Zone),
			Route:          optionalLink(s.Route),
			Group:          optionalLink(s.Group),
			Status:         s.Status.String(),
			Stage:          s.Stage.String(),
			LoadPriority:   s.Rank,
			Quantity:       s.Quantity,
			DeliveryDate:   s.DeliveryDate.Format(time.DateOnly),
			Controlled:     s.Controlled,
			UpdatedAt:      s.UpdatedAt,
			Version:        s.Version,
		}
	}
	return msg
}

func encode(event ports.OrderEvent) ([]byte, error) {
	return json.Marshal(NewMessage(event))
}

func linkPayload(l reference.Link) LinkPayload {
	return LinkPayload{ID: l.ID.String(), Name: l.Name}
}

func optionalLink(l *reference.Link) *LinkPayload {
	if l == nil {
		return nil
	}
	p := linkPayload(*l)
	return &p
}

