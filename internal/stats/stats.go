package stats

import (
	"ms-ticketing-gateway/internal/models"

	"github.com/shopspring/decimal"
)

// EventStats summarises booking volume and revenue for one event. Volume is
// counted in booking quantities, never in ticket instances; only CONFIRMED
// bookings contribute to revenue.
type EventStats struct {
	TotalBookings     int             `json:"total_bookings"`
	ConfirmedBookings int             `json:"confirmed_bookings"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TicketTypeCount   int             `json:"ticket_type_count"`
}

// ForEvent walks the event's ticket-type tree and aggregates booking stats.
// It never fails: an event with no ticket types yields all-zero stats, and a
// price that does not parse as a decimal counts as zero.
func ForEvent(event models.Event) EventStats {
	s := EventStats{
		TotalRevenue:    decimal.Zero,
		TicketTypeCount: len(event.TicketTypes),
	}

	for _, tt := range event.TicketTypes {
		price, err := decimal.NewFromString(tt.Price)
		if err != nil {
			price = decimal.Zero
		}
		for _, booking := range tt.Bookings {
			s.TotalBookings += booking.Quantity
			if booking.Status == models.BookingConfirmed {
				s.ConfirmedBookings += booking.Quantity
				s.TotalRevenue = s.TotalRevenue.Add(price.Mul(decimal.NewFromInt(int64(booking.Quantity))))
			}
		}
	}

	return s
}

// CapacityUsage reports confirmed bookings as a percentage of event capacity.
// The second return is false when the event has no capacity set.
func CapacityUsage(s EventStats, capacity int) (float64, bool) {
	if capacity <= 0 {
		return 0, false
	}
	return float64(s.ConfirmedBookings) / float64(capacity) * 100, true
}

// CheckinSummary partitions by ticket instance, not booking quantity.
// TotalConfirmed counts bookings; PendingCheckin and CheckedIn count tickets
// across those bookings' ticket lists.
type CheckinSummary struct {
	TotalConfirmed int `json:"total_confirmed"`
	PendingCheckin int `json:"pending_check_in"`
	CheckedIn      int `json:"checked_in"`
}

// ForCheckin aggregates check-in progress over an already CONFIRMED-restricted
// booking list.
func ForCheckin(confirmed []models.BookingWithType) CheckinSummary {
	s := CheckinSummary{TotalConfirmed: len(confirmed)}

	for _, booking := range confirmed {
		for _, ticket := range booking.Tickets {
			if ticket.IsUsed {
				s.CheckedIn++
			} else {
				s.PendingCheckin++
			}
		}
	}

	return s
}
