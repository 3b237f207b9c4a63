package kafka

// Default topics carrying check-in activity out of the gateway.
const (
	TopicTicketCheckedIn  = "ticket-checked-in"
	TopicBookingCheckedIn = "booking-checked-in"
)

// Topics names the streams the producer writes to. Empty fields fall back to
// the defaults above.
type Topics struct {
	TicketCheckedIn  string
	BookingCheckedIn string
}

func (t Topics) withDefaults() Topics {
	if t.TicketCheckedIn == "" {
		t.TicketCheckedIn = TopicTicketCheckedIn
	}
	if t.BookingCheckedIn == "" {
		t.BookingCheckedIn = TopicBookingCheckedIn
	}
	return t
}
