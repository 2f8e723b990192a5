package entity

import "time"

// Estados de entrega.
const (
	DeliveryPending    = "pending"
	DeliveryProcessing = "processing"
	DeliveryShipped    = "shipped"
	DeliveryDelivered  = "delivered"
	DeliveryCancelled  = "cancelled"
)

// Delivery es el despacho asociado a una venta.
type Delivery struct {
	ID              string
	SaleID          string
	UserID          string
	Status          string
	ShippingAddress string
	ShippingMethod  string
	Courier         string
	TrackingNumber  string
	ScheduledDate   *time.Time
	DeliveryDate    *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Terminal indica si el despacho ya no admite cambios.
func (d *Delivery) Terminal() bool {
	return d.Status == DeliveryDelivered || d.Status == DeliveryCancelled
}

// CanTransition valida el avance del despacho: pending -> processing -> shipped -> delivered,
// con cancelación posible antes de salir.
func (d *Delivery) CanTransition(to string) bool {
	if d.Status == to {
		return true
	}
	switch d.Status {
	case DeliveryPending:
		return to == DeliveryProcessing || to == DeliveryShipped || to == DeliveryCancelled
	case DeliveryProcessing:
		return to == DeliveryShipped || to == DeliveryCancelled
	case DeliveryShipped:
		return to == DeliveryDelivered
	}
	return false
}
