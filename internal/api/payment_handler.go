package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-ticketing-gateway/internal/models"
	"ms-ticketing-gateway/internal/mpesa"
	"ms-ticketing-gateway/internal/utils"
)

// GetBooking serves the attendee payment page: one booking by reference.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	booking, err := h.Backend.Booking(r.Context(), reference)
	if err != nil {
		h.writeError(w, backendStatus(err), "Booking not found", err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("booking", booking))
}

// InitiatePayment starts an M-Pesa STK push for a booking. Phone validation
// failures are rejected before any backend call.
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.STKPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BookingReference == "" {
		h.writeError(w, http.StatusBadRequest, "booking_reference is required", nil)
		return
	}

	resp, err := h.Payment.InitiatePayment(r.Context(), req.BookingReference, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, mpesa.ErrInvalidPhone), errors.Is(err, mpesa.ErrPaymentNotPending):
			h.writeError(w, http.StatusBadRequest, "Cannot initiate payment", err)
		case errors.Is(err, mpesa.ErrPaymentInProgress):
			h.writeError(w, http.StatusConflict, "Payment already in progress", err)
		default:
			h.writeError(w, backendStatus(err), "Failed to initiate payment", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(
		"Check your phone and enter your M-Pesa PIN to complete the payment", resp))
}
