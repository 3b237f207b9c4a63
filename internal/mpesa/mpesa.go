package mpesa

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"

	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/models"
)

// M-Pesa numbers are country code 254 followed by nine digits.
var phonePattern = regexp.MustCompile(`^254\d{9}$`)

var (
	ErrInvalidPhone      = errors.New("phone number must match 254XXXXXXXXX")
	ErrPaymentInProgress = errors.New("a payment for this booking is already in progress")
	ErrPaymentNotPending = errors.New("booking payment is not pending")
)

// ValidPhoneNumber checks the M-Pesa phone format. Validation happens before
// any network call.
func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Gateway is the slice of the backend client the payment flow needs.
type Gateway interface {
	Booking(ctx context.Context, reference string) (*models.Booking, error)
	InitiateSTKPush(ctx context.Context, req models.STKPushRequest) (*models.STKPushResponse, error)
}

// Service relays STK push initiations to the backend. A per-booking in-flight
// guard stops an attendee double-submitting while the first push is pending.
type Service struct {
	backend Gateway
	logger  *logger.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

func NewService(backend Gateway, log *logger.Logger) *Service {
	return &Service{
		backend:  backend,
		logger:   log,
		inflight: make(map[string]bool),
	}
}

// InitiatePayment validates, gates on the booking's payment status, and
// relays the STK push. The attendee completes the payment on their phone;
// confirmation reaches this layer only through the next booking refetch.
func (s *Service) InitiatePayment(ctx context.Context, bookingRef, phone string) (*models.STKPushResponse, error) {
	if !ValidPhoneNumber(phone) {
		return nil, ErrInvalidPhone
	}

	s.mu.Lock()
	if s.inflight[bookingRef] {
		s.mu.Unlock()
		s.logger.Warn("PAYMENT", fmt.Sprintf("Duplicate initiation for booking %s rejected", bookingRef))
		return nil, ErrPaymentInProgress
	}
	s.inflight[bookingRef] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, bookingRef)
		s.mu.Unlock()
	}()

	booking, err := s.backend.Booking(ctx, bookingRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingRef, err)
	}

	if booking.PaymentStatus != models.PaymentPending {
		return nil, fmt.Errorf("booking %s: %w", bookingRef, ErrPaymentNotPending)
	}

	amount, err := decimal.NewFromString(booking.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	s.logger.LogPayment("STK_PUSH", bookingRef, fmt.Sprintf("initiating KES %s to %s", amount.StringFixed(2), phone))

	resp, err := s.backend.InitiateSTKPush(ctx, models.STKPushRequest{
		BookingReference: bookingRef,
		PhoneNumber:      phone,
	})
	if err != nil {
		s.logger.Error("PAYMENT", fmt.Sprintf("STK push for booking %s: %v", bookingRef, err))
		return nil, fmt.Errorf("failed to initiate payment for booking %s: %w", bookingRef, err)
	}

	s.logger.LogPayment("STK_PUSH", bookingRef, fmt.Sprintf("accepted, checkout request %s", resp.CheckoutRequestID))
	return resp, nil
}
