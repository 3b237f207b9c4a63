package bookings

import (
	"strings"

	"ms-ticketing-gateway/internal/models"
)

// Sentinel filter values. FilterAll keeps everything on its axis;
// FilterConfirmed restricts the status axis to CONFIRMED bookings.
const (
	FilterAll       = "all"
	FilterConfirmed = "confirmed"
)

// Flatten projects the event's nested ticket-type tree into one flat booking
// list, stamping each booking with its parent ticket type's display name.
// Order is source traversal order: ticket types as stored, bookings within
// each as stored. The event tree is never mutated.
func Flatten(event models.Event) []models.BookingWithType {
	var flat []models.BookingWithType
	for _, tt := range event.TicketTypes {
		for _, booking := range tt.Bookings {
			flat = append(flat, models.BookingWithType{
				Booking:        booking,
				TicketTypeName: tt.Name,
			})
		}
	}
	return flat
}

// Filter applies the ticket-type filter first, then the status filter.
// Filtering is stable and returns a fresh slice.
func Filter(list []models.BookingWithType, ticketType, status string) []models.BookingWithType {
	filtered := make([]models.BookingWithType, 0, len(list))
	for _, booking := range list {
		if ticketType != FilterAll && booking.TicketTypeName != ticketType {
			continue
		}
		if status == FilterConfirmed && booking.Status != models.BookingConfirmed {
			continue
		}
		filtered = append(filtered, booking)
	}
	return filtered
}

// Confirmed is the base set for the check-in view: the flattened list
// restricted to CONFIRMED bookings.
func Confirmed(event models.Event) []models.BookingWithType {
	return Filter(Flatten(event), FilterAll, FilterConfirmed)
}

// Search keeps bookings where the term matches reference, name, email, or
// phone as a case-insensitive substring; any one field is enough. Absent
// fields behave as empty strings. An empty term keeps everything.
func Search(list []models.BookingWithType, term string) []models.BookingWithType {
	if term == "" {
		return list
	}
	needle := strings.ToLower(term)

	matched := make([]models.BookingWithType, 0, len(list))
	for _, booking := range list {
		if strings.Contains(strings.ToLower(booking.Reference), needle) ||
			strings.Contains(strings.ToLower(booking.Name), needle) ||
			strings.Contains(strings.ToLower(booking.Email), needle) ||
			strings.Contains(strings.ToLower(booking.Phone), needle) {
			matched = append(matched, booking)
		}
	}
	return matched
}

// TicketTypeNames returns the distinct ticket-type names present in the list,
// in first-seen order. Used to build the filter choices.
func TicketTypeNames(list []models.BookingWithType) []string {
	seen := make(map[string]bool)
	var names []string
	for _, booking := range list {
		if !seen[booking.TicketTypeName] {
			seen[booking.TicketTypeName] = true
			names = append(names, booking.TicketTypeName)
		}
	}
	return names
}
