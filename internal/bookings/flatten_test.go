package bookings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-ticketing-gateway/internal/bookings"
	"ms-ticketing-gateway/internal/models"
)

func testEvent() models.Event {
	return models.Event{
		Identity: "evt-1",
		Name:     "Nairobi Tech Summit",
		TicketTypes: []models.TicketType{
			{
				Name:  "VIP",
				Price: "1500",
				Bookings: []models.Booking{
					{Reference: "BK-1", Name: "Alice Wanjiku", Email: "alice@example.com", Phone: "254700000001", Quantity: 2, Status: models.BookingConfirmed},
					{Reference: "BK-2", Name: "Brian Otieno", Quantity: 1, Status: models.BookingPending},
				},
			},
			{
				Name:  "Regular",
				Price: "500",
				Bookings: []models.Booking{
					{Reference: "BK-3", Name: "Cynthia Achieng", Email: "cyn@example.com", Quantity: 3, Status: models.BookingConfirmed},
					{Reference: "BK-4", Name: "David Kimani", Quantity: 1, Status: models.BookingCancelled},
				},
			},
		},
	}
}

func TestFlatten_PreservesTraversalOrder(t *testing.T) {
	flat := bookings.Flatten(testEvent())

	require.Len(t, flat, 4)
	assert.Equal(t, "BK-1", flat[0].Reference)
	assert.Equal(t, "BK-2", flat[1].Reference)
	assert.Equal(t, "BK-3", flat[2].Reference)
	assert.Equal(t, "BK-4", flat[3].Reference)

	assert.Equal(t, "VIP", flat[0].TicketTypeName)
	assert.Equal(t, "VIP", flat[1].TicketTypeName)
	assert.Equal(t, "Regular", flat[2].TicketTypeName)
	assert.Equal(t, "Regular", flat[3].TicketTypeName)
}

func TestFlatten_DoesNotMutateEvent(t *testing.T) {
	event := testEvent()
	_ = bookings.Flatten(event)

	assert.Len(t, event.TicketTypes[0].Bookings, 2)
	assert.Len(t, event.TicketTypes[1].Bookings, 2)
}

func TestFilter_TicketTypeThenStatus(t *testing.T) {
	flat := bookings.Flatten(testEvent())

	vip := bookings.Filter(flat, "VIP", bookings.FilterAll)
	require.Len(t, vip, 2)
	assert.Equal(t, "BK-1", vip[0].Reference)
	assert.Equal(t, "BK-2", vip[1].Reference)

	vipConfirmed := bookings.Filter(flat, "VIP", bookings.FilterConfirmed)
	require.Len(t, vipConfirmed, 1)
	assert.Equal(t, "BK-1", vipConfirmed[0].Reference)
}

func TestFilter_AllStatusKeepsEverything(t *testing.T) {
	flat := bookings.Flatten(testEvent())

	all := bookings.Filter(flat, bookings.FilterAll, bookings.FilterAll)
	assert.Len(t, all, 4, "all/all keeps cancelled and pending bookings too")
}

func TestFilter_ConfirmedIsSubsetOfAll(t *testing.T) {
	flat := bookings.Flatten(testEvent())

	all := bookings.Filter(flat, bookings.FilterAll, bookings.FilterAll)
	confirmed := bookings.Filter(flat, bookings.FilterAll, bookings.FilterConfirmed)

	seen := make(map[string]bool)
	for _, b := range all {
		seen[b.Reference] = true
	}
	for _, b := range confirmed {
		assert.True(t, seen[b.Reference], "confirmed result %s not in all result", b.Reference)
	}
	assert.Less(t, len(confirmed), len(all))
}

func TestConfirmed_RestrictsBaseSet(t *testing.T) {
	confirmed := bookings.Confirmed(testEvent())

	require.Len(t, confirmed, 2)
	for _, b := range confirmed {
		assert.Equal(t, models.BookingConfirmed, b.Status)
	}
}

func TestSearch_CaseInsensitiveAcrossFields(t *testing.T) {
	confirmed := bookings.Confirmed(testEvent())

	byRef := bookings.Search(confirmed, "bk-1")
	require.Len(t, byRef, 1)
	assert.Equal(t, "BK-1", byRef[0].Reference)

	byName := bookings.Search(confirmed, "ACHIENG")
	require.Len(t, byName, 1)
	assert.Equal(t, "BK-3", byName[0].Reference)

	byEmail := bookings.Search(confirmed, "alice@")
	require.Len(t, byEmail, 1)

	byPhone := bookings.Search(confirmed, "254700")
	require.Len(t, byPhone, 1)
}

func TestSearch_MissingFieldsDoNotPanic(t *testing.T) {
	list := []models.BookingWithType{
		{Booking: models.Booking{Reference: "BK-9"}},
	}

	assert.NotPanics(t, func() {
		matched := bookings.Search(list, "nobody")
		assert.Empty(t, matched)
	})
}

func TestSearch_EmptyTermKeepsAll(t *testing.T) {
	confirmed := bookings.Confirmed(testEvent())
	assert.Len(t, bookings.Search(confirmed, ""), len(confirmed))
}

func TestTicketTypeNames_FirstSeenOrder(t *testing.T) {
	flat := bookings.Flatten(testEvent())

	names := bookings.TicketTypeNames(flat)
	assert.Equal(t, []string{"VIP", "Regular"}, names)
}
