package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the gateway's API surface. The operator routes are expected
// to sit behind the OIDC middleware; attendee routes (booking lookup, payment
// initiation, QR display) are public.
func (h *Handler) Routes(operatorAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/events/{identity}", func(r chi.Router) {
		if operatorAuth != nil {
			r.Use(operatorAuth)
		}
		r.Get("/", h.GetEvent)
		r.Get("/bookings", h.ListBookings)
		r.Get("/bookings/export", h.ExportBookings)
		r.Post("/bookings/{reference}/checkin", h.CheckinBooking)
		r.Get("/checkin", h.CheckinList)
		r.Get("/tickets", h.ListTickets)
		r.Post("/tickets/{reference}/checkin", h.CheckinTicket)
		r.Get("/tickets/{reference}/qr", h.TicketQR)
	})

	r.Route("/ticket-types", func(r chi.Router) {
		if operatorAuth != nil {
			r.Use(operatorAuth)
		}
		r.Post("/", h.CreateTicketType)
	})

	r.Get("/bookings/{reference}", h.GetBooking)
	r.Post("/mpesa/pay", h.InitiatePayment)

	return r
}
