package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Auth    AuthConfig
	QR      QRConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig points at the upstream ticketing service that owns all
// persistence and business state.
type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	EventCacheTTL  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers  []string
	Topics   TopicConfig
	MockMode bool
	Enabled  bool
}

type TopicConfig struct {
	TicketCheckedIn  string
	BookingCheckedIn string
}

type AuthConfig struct {
	OIDCIssuer    string
	KeycloakURL   string
	KeycloakRealm string
	ClientID      string
	ClientSecret  string
	SkipM2M       bool
}

type QRConfig struct {
	SecretKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8000"),
			RequestTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			EventCacheTTL:  time.Duration(getEnvInt("EVENT_CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", true),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				TicketCheckedIn:  getEnv("KAFKA_TOPIC_TICKET_CHECKED_IN", "ticket-checked-in"),
				BookingCheckedIn: getEnv("KAFKA_TOPIC_BOOKING_CHECKED_IN", "booking-checked-in"),
			},
		},
		Auth: AuthConfig{
			OIDCIssuer:    getEnv("OIDC_ISSUER", ""),
			KeycloakURL:   getEnv("KEYCLOAK_URL", "http://localhost:8081"),
			KeycloakRealm: getEnv("KEYCLOAK_REALM", "event-ticketing"),
			ClientID:      getEnv("M2M_CLIENT_ID", "ticketing-gateway"),
			ClientSecret:  getEnv("M2M_CLIENT_SECRET", ""),
			SkipM2M:       getEnvBool("SKIP_M2M_AUTH", false),
		},
		QR: QRConfig{
			SecretKey: getEnv("QR_SECRET_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
