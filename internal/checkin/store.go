package checkin

import (
	"context"
	"fmt"
	"sync"

	"ms-ticketing-gateway/internal/models"
)

// TicketSource is the authoritative ticket feed, backed by the upstream
// service.
type TicketSource interface {
	TicketsByEvent(ctx context.Context, eventIdentity string) ([]models.Ticket, error)
}

// Store holds a client-local copy of one event's ticket list so check-ins can
// be reflected immediately, ahead of the server round-trip. State is two
// phase: a confirmed base seeded from the last fetch, plus a speculative
// used-overlay. Every successful reseed collapses the overlay, so the server
// response always wins over optimistic local state.
type Store struct {
	mu          sync.RWMutex
	eventID     string
	source      TicketSource
	base        []models.Ticket
	speculative map[string]bool
}

func NewStore(eventIdentity string, source TicketSource) *Store {
	return &Store{
		eventID:     eventIdentity,
		source:      source,
		speculative: make(map[string]bool),
	}
}

// Seed replaces the confirmed base wholesale and discards any speculative
// marks. Reseeding with identical data is observationally a no-op.
func (s *Store) Seed(tickets []models.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base = make([]models.Ticket, len(tickets))
	copy(s.base, tickets)
	s.speculative = make(map[string]bool)
}

// MarkUsed optimistically flags the ticket with the given reference as used.
// An unknown reference is a no-op: nothing is inserted, nothing fails.
func (s *Store) MarkUsed(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.base {
		if s.base[i].Reference == reference {
			s.speculative[reference] = true
			return
		}
	}
}

// Tickets returns the merged view: the confirmed base with the speculative
// overlay applied. The returned slice is a copy.
func (s *Store) Tickets() []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	merged := make([]models.Ticket, len(s.base))
	copy(merged, s.base)
	for i := range merged {
		if s.speculative[merged[i].Reference] {
			merged[i].IsUsed = true
		}
	}
	return merged
}

// Reconcile refetches the ticket list and reseeds. If the server rejected a
// check-in in the meantime, the reseed silently corrects the divergence; if
// the fetch fails, prior state is left untouched.
func (s *Store) Reconcile(ctx context.Context) error {
	tickets, err := s.source.TicketsByEvent(ctx, s.eventID)
	if err != nil {
		return fmt.Errorf("failed to refetch tickets for event %s: %w", s.eventID, err)
	}
	s.Seed(tickets)
	return nil
}

// Registry hands out one Store per event identity. Stores live for the
// process lifetime; there is no persisted state.
type Registry struct {
	mu     sync.Mutex
	source TicketSource
	stores map[string]*Store
}

func NewRegistry(source TicketSource) *Registry {
	return &Registry{
		source: source,
		stores: make(map[string]*Store),
	}
}

func (r *Registry) ForEvent(eventIdentity string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[eventIdentity]
	if !ok {
		store = NewStore(eventIdentity, r.source)
		r.stores[eventIdentity] = store
	}
	return store
}
