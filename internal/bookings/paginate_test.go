package bookings_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-ticketing-gateway/internal/bookings"
	"ms-ticketing-gateway/internal/models"
)

func bookingList(n int) []models.BookingWithType {
	list := make([]models.BookingWithType, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, models.BookingWithType{
			Booking: models.Booking{Reference: fmt.Sprintf("BK-%d", i)},
		})
	}
	return list
}

func TestPaginate_LastPartialPage(t *testing.T) {
	list := bookingList(23)

	page := bookings.Paginate(list, 3, bookings.DefaultPageSize)

	assert.Equal(t, 23, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "BK-21", page.Items[0].Reference)
	assert.Equal(t, "BK-23", page.Items[2].Reference)
	assert.Equal(t, 20, page.StartIndex)
	assert.Equal(t, 23, page.EndIndex)
}

func TestPaginate_FullPage(t *testing.T) {
	list := bookingList(23)

	page := bookings.Paginate(list, 1, bookings.DefaultPageSize)

	require.Len(t, page.Items, 10)
	assert.Equal(t, "BK-1", page.Items[0].Reference)
	assert.Equal(t, "BK-10", page.Items[9].Reference)
}

func TestPaginate_PagesPartitionTheList(t *testing.T) {
	list := bookingList(37)

	var seen []string
	first := bookings.Paginate(list, 1, bookings.DefaultPageSize)
	for p := 1; p <= first.TotalPages; p++ {
		page := bookings.Paginate(list, p, bookings.DefaultPageSize)
		for _, item := range page.Items {
			seen = append(seen, item.Reference)
		}
	}

	require.Len(t, seen, 37, "pages together must cover the list exactly once")
	for i, ref := range seen {
		assert.Equal(t, fmt.Sprintf("BK-%d", i+1), ref)
	}
}

func TestPaginate_EmptyList(t *testing.T) {
	page := bookings.Paginate(nil, 1, bookings.DefaultPageSize)

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalItems)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPaginate_NonPositivePageDoesNotPanic(t *testing.T) {
	list := bookingList(23)

	for _, p := range []int{0, -1, -5} {
		var page bookings.Page
		assert.NotPanics(t, func() {
			page = bookings.Paginate(list, p, bookings.DefaultPageSize)
		}, "page %d", p)
		assert.Equal(t, 0, page.StartIndex, "page %d clamps to the first window", p)
		assert.Len(t, page.Items, bookings.DefaultPageSize)
	}
}

func TestValidPage(t *testing.T) {
	assert.False(t, bookings.ValidPage(0, 3))
	assert.True(t, bookings.ValidPage(1, 3))
	assert.True(t, bookings.ValidPage(3, 3))
	assert.False(t, bookings.ValidPage(4, 3))
	assert.False(t, bookings.ValidPage(1, 0))
}

func TestPageNumbers_FewPagesListedInFull(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, bookings.PageNumbers(2, 5))
	assert.Equal(t, []int{1}, bookings.PageNumbers(1, 1))
}

func TestPageNumbers_CompressedAroundCurrent(t *testing.T) {
	e := bookings.Ellipsis

	assert.Equal(t, []int{1, 2, 3, e, 10}, bookings.PageNumbers(2, 10))
	assert.Equal(t, []int{1, e, 4, 5, 6, e, 10}, bookings.PageNumbers(5, 10))
	assert.Equal(t, []int{1, e, 8, 9, 10}, bookings.PageNumbers(9, 10))
}

func TestPageNumbers_EndsAlwaysPresent(t *testing.T) {
	for current := 1; current <= 12; current++ {
		pages := bookings.PageNumbers(current, 12)
		assert.Equal(t, 1, pages[0])
		assert.Equal(t, 12, pages[len(pages)-1])
	}
}
