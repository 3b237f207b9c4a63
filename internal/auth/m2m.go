package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-ticketing-gateway/internal/config"
	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/models"
)

const (
	m2mTokenKey = "m2m_token"
	// Refresh this many seconds before the token actually expires.
	tokenExpiryBuffer = 60 * time.Second
)

type cachedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *cachedToken) valid() bool {
	if t == nil || t.Token == "" {
		return false
	}
	return time.Now().Add(tokenExpiryBuffer).Before(t.ExpiresAt)
}

// M2MTokenSource fetches client-credentials tokens from the identity provider
// for calls to the upstream backend, caching them in Redis until shortly
// before expiry. A nil Redis client degrades to fetching every time.
type M2MTokenSource struct {
	cfg    config.AuthConfig
	http   *http.Client
	redis  *redis.Client
	logger *logger.Logger
}

func NewM2MTokenSource(cfg config.AuthConfig, httpClient *http.Client, redisClient *redis.Client, log *logger.Logger) *M2MTokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &M2MTokenSource{cfg: cfg, http: httpClient, redis: redisClient, logger: log}
}

func (s *M2MTokenSource) Token(ctx context.Context) (string, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached.Token, nil
	}

	token, expiresIn, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.store(ctx, token, expiresIn)
	return token, nil
}

func (s *M2MTokenSource) fromCache(ctx context.Context) *cachedToken {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, m2mTokenKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.logger.Warn("AUTH", fmt.Sprintf("Token cache read: %v", err))
		return nil
	}

	var cached cachedToken
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		s.logger.Warn("AUTH", fmt.Sprintf("Corrupt cached token: %v", err))
		return nil
	}
	if !cached.valid() {
		return nil
	}
	return &cached
}

func (s *M2MTokenSource) store(ctx context.Context, token string, expiresIn int) {
	if s.redis == nil {
		return
	}

	cached := cachedToken{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	payload, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, m2mTokenKey, payload, time.Duration(expiresIn)*time.Second).Err(); err != nil {
		s.logger.Warn("AUTH", fmt.Sprintf("Token cache write: %v", err))
	}
}

func (s *M2MTokenSource) fetch(ctx context.Context) (string, int, error) {
	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", s.cfg.KeycloakURL, s.cfg.KeycloakRealm)

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", s.cfg.ClientID)
	data.Set("client_secret", s.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Error("AUTH", fmt.Sprintf("Token request to %s: %v", tokenURL, err))
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error("AUTH", fmt.Sprintf("Failed to close token response body: %v", cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("AUTH", fmt.Sprintf("Token endpoint returned %s: %s", resp.Status, string(body)))
		return "", 0, fmt.Errorf("failed to get token, status: %s", resp.Status)
	}

	var tokenResp models.M2MTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}
