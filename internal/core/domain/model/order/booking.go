package order

import (
	"time"

	"dispatch/internal/core/domain/model/reference"
)

// BookingKey identifies a carrier run. At most one order may hold a given key.
type BookingKey struct {
	CarrierID    string
	RouteID      string
	DeliveryDate string
}

func newBookingKey(carrier reference.Link, route *reference.Link, deliveryDate time.Time) BookingKey {
	key := BookingKey{
		CarrierID:    carrier.ID.String(),
		DeliveryDate: deliveryDate.Format(time.DateOnly),
	}
	if route != nil {
		key.RouteID = route.ID.String()
	}
	return key
}

// BookingKey of the stored form, used by stores that enforce uniqueness themselves.
func (s Snapshot) BookingKey() BookingKey {
	return newBookingKey(s.Carrier, s.Route, s.DeliveryDate)
}

// IsComplete reports whether the key can collide. Orders without a route never do.
func (k BookingKey) IsComplete() bool {
	return k.CarrierID != "" && k.RouteID != ""
}

func (k BookingKey) String() string {
	return k.CarrierID + "/" + k.RouteID + "/" + k.DeliveryDate
}
