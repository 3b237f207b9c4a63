package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-ticketing-gateway/internal/auth"
	"ms-ticketing-gateway/internal/bookings"
	"ms-ticketing-gateway/internal/models"
	"ms-ticketing-gateway/internal/stats"
	"ms-ticketing-gateway/internal/utils"
)

// operatorFrom attributes a check-in to the acting operator: the verified
// subject when the OIDC middleware ran, otherwise a best-effort parse of the
// bearer token.
func operatorFrom(r *http.Request) string {
	if uid := auth.UserID(r.Context()); uid != "" {
		return uid
	}
	if raw, err := auth.BearerToken(r); err == nil {
		if sub, err := auth.SubjectFromJWT(raw); err == nil {
			return sub
		}
	}
	return "unknown"
}

// checkinListResponse is the operator check-in view: confirmed bookings after
// search and type filtering, with check-in progress counters over the full
// confirmed set.
type checkinListResponse struct {
	Bookings    []models.BookingWithType `json:"bookings"`
	Summary     stats.CheckinSummary     `json:"summary"`
	TicketTypes []string                 `json:"ticket_types"`
}

// CheckinList serves the check-in checklist for an event.
// Query params: search (free text over reference/name/email/phone),
// ticket_type ("all" default).
func (h *Handler) CheckinList(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	event, err := h.Backend.Event(r.Context(), identity)
	if err != nil {
		h.writeError(w, backendStatus(err), "Event not found", err)
		return
	}

	confirmed := bookings.Confirmed(*event)
	ticketType := queryDefault(r, "ticket_type", bookings.FilterAll)

	filtered := bookings.Search(confirmed, r.URL.Query().Get("search"))
	filtered = bookings.Filter(filtered, ticketType, bookings.FilterAll)

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("check-in list", checkinListResponse{
		Bookings:    filtered,
		Summary:     stats.ForCheckin(confirmed),
		TicketTypes: bookings.TicketTypeNames(confirmed),
	}))
}

// ListTickets serves the event's ticket list from the local store: the last
// seeded server state with any optimistic check-in marks applied. The store
// is seeded from the backend when empty or when refresh=true.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	store := h.Stores.ForEvent(identity)

	if len(store.Tickets()) == 0 || r.URL.Query().Get("refresh") == "true" {
		if err := store.Reconcile(r.Context()); err != nil {
			h.writeError(w, http.StatusBadGateway, "Failed to fetch tickets", err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("tickets", store.Tickets()))
}

// CheckinTicket marks one ticket used.
func (h *Handler) CheckinTicket(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	reference := chi.URLParam(r, "reference")

	if err := h.Checkin.CheckinTicket(r.Context(), identity, reference); err != nil {
		h.writeError(w, http.StatusBadGateway, "Check-in failed", err)
		return
	}

	h.Logger.LogCheckin("TICKET", reference, fmt.Sprintf("by operator %s", operatorFrom(r)))
	h.Backend.InvalidateEvent(r.Context(), identity)
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("ticket checked in", nil))
}

// CheckinBooking marks all tickets of a booking used as one batch. Partial
// failure is reported as a single failure; the operator can safely retry the
// whole booking.
func (h *Handler) CheckinBooking(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	reference := chi.URLParam(r, "reference")

	event, err := h.Backend.Event(r.Context(), identity)
	if err != nil {
		h.writeError(w, backendStatus(err), "Event not found", err)
		return
	}

	var target *models.BookingWithType
	for _, booking := range bookings.Confirmed(*event) {
		if booking.Reference == reference {
			target = &booking
			break
		}
	}
	if target == nil {
		h.writeError(w, http.StatusNotFound, "Confirmed booking not found", nil)
		return
	}

	if err := h.Checkin.CheckinBooking(r.Context(), identity, *target); err != nil {
		h.Backend.InvalidateEvent(r.Context(), identity)
		h.writeError(w, http.StatusBadGateway, "Failed to check in booking", err)
		return
	}

	h.Logger.LogCheckin("BATCH", reference, fmt.Sprintf("by operator %s", operatorFrom(r)))
	h.Backend.InvalidateEvent(r.Context(), identity)
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("booking checked in", nil))
}

// TicketQR renders the encrypted QR PNG for one of the event's tickets.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	reference := chi.URLParam(r, "reference")

	tickets, err := h.Backend.TicketsByEvent(r.Context(), identity)
	if err != nil {
		h.writeError(w, backendStatus(err), "Failed to fetch tickets", err)
		return
	}

	for _, ticket := range tickets {
		if ticket.Reference != reference {
			continue
		}
		png, err := h.QR.TicketQR(ticket)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "Failed to render QR code", err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
		return
	}

	h.writeError(w, http.StatusNotFound, "Ticket not found", nil)
}
