package checkin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/metrics"
	"ms-ticketing-gateway/internal/models"
)

// TicketCheckin submits a single ticket check-in to the upstream service.
type TicketCheckin interface {
	CheckinTicket(ctx context.Context, reference string) (*models.Ticket, error)
}

// Publisher streams check-in events. The kafka package provides the real
// producer and a mock for local runs.
type Publisher interface {
	PublishTicketCheckedIn(ticket models.Ticket) error
	PublishBookingCheckedIn(bookingRef string, ticketCount int) error
}

type Service struct {
	Backend TicketCheckin
	Stores  *Registry
	Kafka   Publisher
	Logger  *logger.Logger
}

func NewService(backend TicketCheckin, stores *Registry, kafka Publisher, log *logger.Logger) *Service {
	return &Service{Backend: backend, Stores: stores, Kafka: kafka, Logger: log}
}

// CheckinTicket marks one ticket used: optimistic local flag first, then the
// authoritative PATCH. On failure the store is reconciled so the optimistic
// mark does not outlive the truth, and the error is returned for the caller
// to surface.
func (s *Service) CheckinTicket(ctx context.Context, eventIdentity, reference string) error {
	store := s.Stores.ForEvent(eventIdentity)
	store.MarkUsed(reference)

	ticket, err := s.Backend.CheckinTicket(ctx, reference)
	if err != nil {
		metrics.RecordCheckin("ticket", "failure")
		if rerr := store.Reconcile(ctx); rerr != nil {
			s.Logger.Error("CHECKIN", fmt.Sprintf("Reconcile after failed check-in of %s: %v", reference, rerr))
		}
		return fmt.Errorf("check-in of ticket %s failed: %w", reference, err)
	}

	metrics.RecordCheckin("ticket", "success")
	s.Logger.LogCheckin("TICKET", reference, "checked in")

	if err := s.Kafka.PublishTicketCheckedIn(*ticket); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Publish ticket check-in for %s: %v", reference, err))
	}

	if err := store.Reconcile(ctx); err != nil {
		s.Logger.Warn("CHECKIN", fmt.Sprintf("Reconcile after check-in of %s: %v", reference, err))
	}
	return nil
}

// CheckinBooking marks every ticket of a booking used. Requests go out
// concurrently, one per ticket, and the batch settles as a unit: any
// rejection makes the whole batch fail with a single aggregate error. A
// retry re-issues the full batch; the backend treats re-marking a used
// ticket as idempotent, so partial progress is safe.
func (s *Service) CheckinBooking(ctx context.Context, eventIdentity string, booking models.BookingWithType) error {
	if len(booking.Tickets) == 0 {
		return fmt.Errorf("booking %s has no tickets to check in", booking.Reference)
	}

	batchID := uuid.NewString()
	start := time.Now()
	store := s.Stores.ForEvent(eventIdentity)

	s.Logger.LogCheckin("BATCH", booking.Reference,
		fmt.Sprintf("batch %s: checking in %d tickets", batchID, len(booking.Tickets)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, ticket := range booking.Tickets {
		store.MarkUsed(ticket.Reference)

		wg.Add(1)
		go func(reference string) {
			defer wg.Done()
			if _, err := s.Backend.CheckinTicket(ctx, reference); err != nil {
				mu.Lock()
				failed = append(failed, reference)
				mu.Unlock()
				s.Logger.Error("CHECKIN", fmt.Sprintf("batch %s: ticket %s: %v", batchID, reference, err))
			}
		}(ticket.Reference)
	}
	wg.Wait()

	metrics.ObserveCheckinBatch(time.Since(start))

	// Server state wins no matter how the batch went.
	if err := store.Reconcile(ctx); err != nil {
		s.Logger.Warn("CHECKIN", fmt.Sprintf("batch %s: reconcile: %v", batchID, err))
	}

	if len(failed) > 0 {
		metrics.RecordCheckin("booking", "failure")
		return fmt.Errorf("failed to check in booking %s: %d of %d tickets did not settle",
			booking.Reference, len(failed), len(booking.Tickets))
	}

	metrics.RecordCheckin("booking", "success")
	s.Logger.LogCheckin("BATCH", booking.Reference, fmt.Sprintf("batch %s: complete", batchID))

	if err := s.Kafka.PublishBookingCheckedIn(booking.Reference, len(booking.Tickets)); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Publish booking check-in for %s: %v", booking.Reference, err))
	}
	return nil
}
