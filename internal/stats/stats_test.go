package stats_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ms-ticketing-gateway/internal/models"
	"ms-ticketing-gateway/internal/stats"
)

func TestForEvent_MixedStatuses(t *testing.T) {
	event := models.Event{
		TicketTypes: []models.TicketType{
			{
				Name:  "VIP",
				Price: "500",
				Bookings: []models.Booking{
					{Reference: "BK-1", Quantity: 2, Status: models.BookingConfirmed},
					{Reference: "BK-2", Quantity: 1, Status: models.BookingPending},
				},
			},
		},
	}

	s := stats.ForEvent(event)

	assert.Equal(t, 3, s.TotalBookings)
	assert.Equal(t, 2, s.ConfirmedBookings)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(1000)),
		"expected revenue 1000, got %s", s.TotalRevenue)
	assert.Equal(t, 1, s.TicketTypeCount)
}

func TestForEvent_OnlyConfirmedContributeRevenue(t *testing.T) {
	event := models.Event{
		TicketTypes: []models.TicketType{
			{
				Name:  "Regular",
				Price: "250.50",
				Bookings: []models.Booking{
					{Reference: "BK-1", Quantity: 4, Status: models.BookingConfirmed},
					{Reference: "BK-2", Quantity: 100, Status: models.BookingCancelled},
					{Reference: "BK-3", Quantity: 50, Status: models.BookingPending},
				},
			},
		},
	}

	s := stats.ForEvent(event)

	// Non-confirmed quantities count toward volume but never revenue.
	assert.Equal(t, 154, s.TotalBookings)
	assert.Equal(t, 4, s.ConfirmedBookings)
	assert.True(t, s.TotalRevenue.Equal(decimal.RequireFromString("1002.00")),
		"expected revenue 1002.00, got %s", s.TotalRevenue)
}

func TestForEvent_NoTicketTypes(t *testing.T) {
	s := stats.ForEvent(models.Event{})

	assert.Equal(t, 0, s.TotalBookings)
	assert.Equal(t, 0, s.ConfirmedBookings)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Equal(t, 0, s.TicketTypeCount)
}

func TestForEvent_UnparseablePriceCountsAsZero(t *testing.T) {
	event := models.Event{
		TicketTypes: []models.TicketType{
			{
				Name:  "Broken",
				Price: "not-a-price",
				Bookings: []models.Booking{
					{Reference: "BK-1", Quantity: 3, Status: models.BookingConfirmed},
				},
			},
			{
				Name:  "Valid",
				Price: "100",
				Bookings: []models.Booking{
					{Reference: "BK-2", Quantity: 2, Status: models.BookingConfirmed},
				},
			},
		},
	}

	s := stats.ForEvent(event)

	assert.Equal(t, 5, s.ConfirmedBookings)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(200)))
}

func TestCapacityUsage(t *testing.T) {
	s := stats.EventStats{ConfirmedBookings: 25}

	usage, ok := stats.CapacityUsage(s, 100)
	assert.True(t, ok)
	assert.InDelta(t, 25.0, usage, 0.0001)

	_, ok = stats.CapacityUsage(s, 0)
	assert.False(t, ok, "no capacity means no usage figure")
}

func TestForCheckin_PartitionsByTicketInstance(t *testing.T) {
	confirmed := []models.BookingWithType{
		{
			Booking: models.Booking{
				Reference: "BK-1",
				Quantity:  2,
				Status:    models.BookingConfirmed,
				Tickets: []models.Ticket{
					{Reference: "T-1", IsUsed: true},
					{Reference: "T-2", IsUsed: false},
				},
			},
		},
		{
			Booking: models.Booking{
				Reference: "BK-2",
				Quantity:  3,
				Status:    models.BookingConfirmed,
				Tickets: []models.Ticket{
					{Reference: "T-3", IsUsed: false},
					{Reference: "T-4", IsUsed: false},
					{Reference: "T-5", IsUsed: true},
				},
			},
		},
	}

	s := stats.ForCheckin(confirmed)

	// Bookings counted once each; tickets partitioned individually.
	assert.Equal(t, 2, s.TotalConfirmed)
	assert.Equal(t, 3, s.PendingCheckin)
	assert.Equal(t, 2, s.CheckedIn)
	assert.Equal(t, 5, s.PendingCheckin+s.CheckedIn)
}

func TestForCheckin_Empty(t *testing.T) {
	s := stats.ForCheckin(nil)

	assert.Equal(t, 0, s.TotalConfirmed)
	assert.Equal(t, 0, s.PendingCheckin)
	assert.Equal(t, 0, s.CheckedIn)
}
