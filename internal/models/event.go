package models

import (
	"time"
)

// Booking lifecycle statuses. A booking is created PENDING by the backend's
// reservation flow and moves to CONFIRMED only once payment settles.
// CANCELLED is terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Payment statuses form an independent axis from the booking status.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Event is the nested tree returned by the backend's event-by-identity
// endpoint: ticket types in stored order, each carrying its bookings.
type Event struct {
	Identity    string       `json:"identity"`
	Reference   string       `json:"reference"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Venue       string       `json:"venue"`
	StartDate   time.Time    `json:"start_date"`
	Capacity    int          `json:"capacity,omitempty"`
	Owner       string       `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	TicketTypes []TicketType `json:"ticket_types"`
}

// TicketType carries its price as a decimal string, exactly as the backend
// stores it. Parsing happens at the point of arithmetic, never on decode.
type TicketType struct {
	Identity          string    `json:"identity"`
	Name              string    `json:"name"`
	Price             string    `json:"price"`
	QuantityAvailable int       `json:"quantity_available,omitempty"`
	IsLimited         bool      `json:"is_limited"`
	Bookings          []Booking `json:"bookings"`
}

// Booking is a customer's reservation of some quantity of one ticket type.
// Quantity is the authoritative count for revenue math; the Tickets slice is
// the check-in unit. The two are assumed equal but independently sourced, so
// no code may conflate them.
type Booking struct {
	Identity      string    `json:"identity"`
	Reference     string    `json:"reference"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Quantity      int       `json:"quantity"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Amount        string    `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
	Tickets       []Ticket  `json:"tickets"`
}

// BookingWithType is a booking stamped with its parent ticket type's display
// name, the flat projection the admin and check-in views work with.
type BookingWithType struct {
	Booking
	TicketTypeName string `json:"ticket_type_name"`
}
