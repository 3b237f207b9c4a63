package models

import (
	"time"
)

// Ticket is one scannable unit belonging to a booking. IsUsed is one-way:
// once a ticket is checked in, nothing in this layer re-opens it.
type Ticket struct {
	Reference      string    `json:"reference"`
	BookingRef     string    `json:"booking"`
	TicketTypeName string    `json:"ticket_type_name"`
	IsUsed         bool      `json:"is_used"`
	QRCode         string    `json:"qr_code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
