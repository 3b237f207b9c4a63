package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ms-ticketing-gateway/internal/config"
	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/metrics"
	"ms-ticketing-gateway/internal/models"
)

// ErrNotFound marks an upstream 404. Callers surface it as an empty or
// informational state rather than a hard failure.
var ErrNotFound = errors.New("resource not found")

// TokenSource supplies the bearer token for service-to-service calls. A nil
// source sends unauthenticated requests (local development).
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the upstream ticketing backend, the sole owner of events,
// bookings, tickets and payments. The gateway only renders and relays.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	cache   *EventCache
	logger  *logger.Logger
}

func NewClient(cfg config.BackendConfig, httpClient *http.Client, tokens TokenSource, cache *EventCache, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		cache:   cache,
		logger:  log,
	}
}

// Event fetches the event tree by identity, read-through the Redis cache.
func (c *Client) Event(ctx context.Context, identity string) (*models.Event, error) {
	if c.cache != nil {
		if event, ok := c.cache.Get(ctx, identity); ok {
			metrics.RecordCacheLookup(true)
			return event, nil
		}
		metrics.RecordCacheLookup(false)
	}

	var event models.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/events/%s/", url.PathEscape(identity)), nil, &event); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ctx, &event)
	}
	return &event, nil
}

// InvalidateEvent busts the cached tree so the next fetch is authoritative.
// Called after any check-in touching the event.
func (c *Client) InvalidateEvent(ctx context.Context, identity string) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, identity)
	}
}

type ticketListResponse struct {
	Results []models.Ticket `json:"results"`
}

// TicketsByEvent fetches the flat ticket list for an event.
func (c *Client) TicketsByEvent(ctx context.Context, eventIdentity string) ([]models.Ticket, error) {
	var list ticketListResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/tickets/%s/", url.PathEscape(eventIdentity)), nil, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// Booking fetches a single booking by its human-facing reference.
func (c *Client) Booking(ctx context.Context, reference string) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%s/", url.PathEscape(reference)), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CheckinTicket marks the ticket used upstream. The backend treats a repeat
// check-in of an already-used ticket as an idempotent success.
func (c *Client) CheckinTicket(ctx context.Context, reference string) (*models.Ticket, error) {
	var ticket models.Ticket
	body := models.CheckinUpdate{IsUsed: true}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/tickets/%s/checkin/", url.PathEscape(reference)), body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicketType relays a ticket-type creation to the backend.
func (c *Client) CreateTicketType(ctx context.Context, req models.CreateTicketTypeRequest) (*models.TicketType, error) {
	var tt models.TicketType
	if err := c.do(ctx, http.MethodPost, "/api/v1/ticket-types/", req, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

// InitiateSTKPush relays an M-Pesa payment initiation for a booking.
func (c *Client) InitiateSTKPush(ctx context.Context, req models.STKPushRequest) (*models.STKPushResponse, error) {
	var resp models.STKPushResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/mpesa/pay/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveBackendRequest(path, "error", time.Since(start))
		c.logger.Error("BACKEND", fmt.Sprintf("%s %s: %v", method, path, err))
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error("BACKEND", fmt.Sprintf("Failed to close response body: %v", cerr))
		}
	}()

	metrics.ObserveBackendRequest(path, resp.Status, time.Since(start))
	c.logger.LogBackend(method, path, resp.Status)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode backend response: %w", err)
		}
	}
	return nil
}
