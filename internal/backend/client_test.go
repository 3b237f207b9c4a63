package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-ticketing-gateway/internal/backend"
	"ms-ticketing-gateway/internal/config"
	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/models"
)

type staticTokenSource string

func (s staticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.Handler, tokens backend.TokenSource) *backend.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.BackendConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	}
	return backend.NewClient(cfg, server.Client(), tokens, nil, &logger.Logger{})
}

func TestClient_Event(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/events/evt-1/", r.URL.Path)
		json.NewEncoder(w).Encode(models.Event{
			Identity: "evt-1",
			Name:     "Nairobi Tech Summit",
			Capacity: 100,
			TicketTypes: []models.TicketType{
				{Name: "VIP", Price: "1500"},
			},
		})
	}), nil)

	event, err := client.Event(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Nairobi Tech Summit", event.Name)
	require.Len(t, event.TicketTypes, 1)
	assert.Equal(t, "VIP", event.TicketTypes[0].Name)
}

func TestClient_EventNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), nil)

	_, err := client.Event(context.Background(), "evt-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestClient_TicketsByEvent_ResultsEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tickets/evt-1/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []models.Ticket{
				{Reference: "TK-A", IsUsed: false},
				{Reference: "TK-B", IsUsed: true},
			},
		})
	}), nil)

	tickets, err := client.TicketsByEvent(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "TK-A", tickets[0].Reference)
	assert.True(t, tickets[1].IsUsed)
}

func TestClient_CheckinTicket_SendsPatchWithUsedFlag(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/tickets/TK-A/checkin/", r.URL.Path)

		var body models.CheckinUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.IsUsed)

		json.NewEncoder(w).Encode(models.Ticket{Reference: "TK-A", IsUsed: true})
	}), nil)

	ticket, err := client.CheckinTicket(context.Background(), "TK-A")
	require.NoError(t, err)
	assert.True(t, ticket.IsUsed)
}

func TestClient_BearerTokenAttached(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.Booking{Reference: "BK-1"})
	}), staticTokenSource("svc-token"))

	_, err := client.Booking(context.Background(), "BK-1")
	require.NoError(t, err)
}

func TestClient_NoTokenSourceSendsUnauthenticated(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.Booking{Reference: "BK-1"})
	}), nil)

	_, err := client.Booking(context.Background(), "BK-1")
	require.NoError(t, err)
}

func TestClient_CreateTicketType(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/ticket-types/", r.URL.Path)

		var req models.CreateTicketTypeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Early Bird", req.Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.TicketType{Identity: "tt-1", Name: req.Name, Price: req.Price})
	}), nil)

	tt, err := client.CreateTicketType(context.Background(), models.CreateTicketTypeRequest{
		Event:             "evt-1",
		Name:              "Early Bird",
		Price:             "750",
		QuantityAvailable: "50",
	})
	require.NoError(t, err)
	assert.Equal(t, "tt-1", tt.Identity)
}

func TestClient_UpstreamErrorIncludesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("backend exploded"))
	}), nil)

	_, err := client.Booking(context.Background(), "BK-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "backend exploded")
}
