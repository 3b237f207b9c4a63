package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-ticketing-gateway/internal/backend"
	"ms-ticketing-gateway/internal/bookings"
	"ms-ticketing-gateway/internal/checkin"
	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/models"
	"ms-ticketing-gateway/internal/qr"
	"ms-ticketing-gateway/internal/stats"
	"ms-ticketing-gateway/internal/utils"
)

// EventSource is the slice of the backend client the handlers read from.
type EventSource interface {
	Event(ctx context.Context, identity string) (*models.Event, error)
	TicketsByEvent(ctx context.Context, eventIdentity string) ([]models.Ticket, error)
	Booking(ctx context.Context, reference string) (*models.Booking, error)
	CreateTicketType(ctx context.Context, req models.CreateTicketTypeRequest) (*models.TicketType, error)
	InvalidateEvent(ctx context.Context, identity string)
}

// CheckinRunner executes single and batch check-ins.
type CheckinRunner interface {
	CheckinTicket(ctx context.Context, eventIdentity, reference string) error
	CheckinBooking(ctx context.Context, eventIdentity string, booking models.BookingWithType) error
}

// PaymentInitiator starts an M-Pesa STK push for a booking.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, bookingRef, phone string) (*models.STKPushResponse, error)
}

type Handler struct {
	Backend EventSource
	Checkin CheckinRunner
	Stores  *checkin.Registry
	Payment PaymentInitiator
	QR      *qr.Generator
	Logger  *logger.Logger
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	h.writeJSON(w, status, utils.ErrorResponse(message, detail))
}

// backendStatus maps client errors onto response codes: upstream 404s become
// an informational 404, everything else is a bad gateway.
func backendStatus(err error) int {
	if errors.Is(err, backend.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// eventResponse pairs the raw event tree with its derived statistics.
type eventResponse struct {
	Event         *models.Event    `json:"event"`
	Stats         stats.EventStats `json:"stats"`
	CapacityUsage *float64         `json:"capacity_usage,omitempty"`
}

// GetEvent serves the admin event detail view: the tree plus summary stats.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	event, err := h.Backend.Event(r.Context(), identity)
	if err != nil {
		h.writeError(w, backendStatus(err), "Event not found", err)
		return
	}

	resp := eventResponse{Event: event, Stats: stats.ForEvent(*event)}
	if usage, ok := stats.CapacityUsage(resp.Stats, event.Capacity); ok {
		resp.CapacityUsage = &usage
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("event", resp))
}

// bookingListResponse is one page of filtered bookings plus everything the
// table around it needs: filter choices and the compressed page buttons.
type bookingListResponse struct {
	bookings.Page
	TicketTypes []string `json:"ticket_types"`
	PageNumbers []int    `json:"page_numbers"`
	CurrentPage int      `json:"current_page"`
}

// ListBookings flattens, filters, and pages the event's bookings.
// Query params: ticket_type ("all" default), status ("all"|"confirmed"),
// page (1-based, reset to 1 whenever the client changes a filter).
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	event, err := h.Backend.Event(r.Context(), identity)
	if err != nil {
		h.writeError(w, backendStatus(err), "Event not found", err)
		return
	}

	ticketType := queryDefault(r, "ticket_type", bookings.FilterAll)
	status := queryDefault(r, "status", bookings.FilterAll)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid page number", err)
			return
		}
	}
	if page < 1 {
		h.writeError(w, http.StatusBadRequest, "Page out of range", nil)
		return
	}

	flat := bookings.Flatten(*event)
	filtered := bookings.Filter(flat, ticketType, status)

	paged := bookings.Paginate(filtered, page, bookings.DefaultPageSize)
	if !bookings.ValidPage(page, paged.TotalPages) && !(page == 1 && paged.TotalPages == 0) {
		h.writeError(w, http.StatusBadRequest, "Page out of range", nil)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("bookings", bookingListResponse{
		Page:        paged,
		TicketTypes: bookings.TicketTypeNames(flat),
		PageNumbers: bookings.PageNumbers(page, paged.TotalPages),
		CurrentPage: page,
	}))
}

// ExportBookings streams the confirmed bookings as a CSV download.
func (h *Handler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	event, err := h.Backend.Event(r.Context(), identity)
	if err != nil {
		h.writeError(w, backendStatus(err), "Event not found", err)
		return
	}

	blob, err := bookings.ExportCSV(bookings.Confirmed(*event))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to export bookings", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, bookings.ExportFilename(event.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// CreateTicketType relays a ticket-type creation for an event.
func (h *Handler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTicketTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Event == "" || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "event and name are required", nil)
		return
	}

	tt, err := h.Backend.CreateTicketType(r.Context(), req)
	if err != nil {
		h.writeError(w, backendStatus(err), "Failed to create ticket type", err)
		return
	}

	h.Backend.InvalidateEvent(r.Context(), req.Event)
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("ticket type created", tt))
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}
