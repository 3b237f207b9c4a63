package bookings

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"ms-ticketing-gateway/internal/models"
)

var csvHeader = []string{"Reference", "Name", "Email", "Phone", "Ticket Type", "Quantity", "Amount", "Created At"}

// ExportCSV serialises confirmed bookings into a downloadable CSV blob: fixed
// header row, one row per booking in input order. Fields containing the
// delimiter or quote character get standard CSV quoting. An empty list yields
// a header-only file.
func ExportCSV(list []models.BookingWithType) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, booking := range list {
		row := []string{
			booking.Reference,
			booking.Name,
			booking.Email,
			booking.Phone,
			booking.TicketTypeName,
			strconv.Itoa(booking.Quantity),
			booking.Amount,
			booking.CreatedAt.Format("1/2/2006, 3:04:05 PM"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for booking %s: %w", booking.Reference, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename names the download after the event.
func ExportFilename(eventName string) string {
	return fmt.Sprintf("%s_confirmed_bookings.csv", eventName)
}
