package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ms-ticketing-gateway/internal/api"
	"ms-ticketing-gateway/internal/auth"
	"ms-ticketing-gateway/internal/backend"
	"ms-ticketing-gateway/internal/checkin"
	"ms-ticketing-gateway/internal/config"
	"ms-ticketing-gateway/internal/kafka"
	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/mpesa"
	"ms-ticketing-gateway/internal/qr"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	redisClient, err := backend.InitializeRedis(cfg.Redis.Addr, log)
	if err != nil {
		log.Warn("REDIS", fmt.Sprintf("Running without Redis: %v", err))
		redisClient = nil
	}

	var tokens backend.TokenSource
	if !cfg.Auth.SkipM2M {
		tokens = auth.NewM2MTokenSource(cfg.Auth, nil, redisClient, log)
	} else {
		log.Warn("AUTH", "SKIP_M2M_AUTH set, backend calls are unauthenticated")
	}

	var cache *backend.EventCache
	if redisClient != nil {
		cache = backend.NewEventCache(redisClient, cfg.Backend.EventCacheTTL, log)
	}

	client := backend.NewClient(cfg.Backend, nil, tokens, cache, log)

	var publisher checkin.Publisher
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, kafka.Topics{
			TicketCheckedIn:  cfg.Kafka.Topics.TicketCheckedIn,
			BookingCheckedIn: cfg.Kafka.Topics.BookingCheckedIn,
		}, log)
		defer producer.Close()
		publisher = producer
	} else {
		log.Info("KAFKA", "Kafka disabled or in mock mode, check-in events are logged only")
		publisher = &kafka.MockPublisher{Logger: log}
	}

	stores := checkin.NewRegistry(client)
	checkinService := checkin.NewService(client, stores, publisher, log)
	paymentService := mpesa.NewService(client, log)

	handler := &api.Handler{
		Backend: client,
		Checkin: checkinService,
		Stores:  stores,
		Payment: paymentService,
		QR:      qr.NewGenerator(cfg.QR.SecretKey),
		Logger:  log,
	}

	var operatorAuth func(http.Handler) http.Handler
	if cfg.Auth.OIDCIssuer != "" {
		operatorAuth, err = auth.Middleware(cfg.Auth.OIDCIssuer)
		if err != nil {
			log.Fatal("AUTH", fmt.Sprintf("Failed to set up OIDC middleware: %v", err))
		}
	} else {
		log.Warn("AUTH", "OIDC_ISSUER not set, operator routes are unauthenticated")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/api/v1", handler.Routes(operatorAuth))
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("Ticketing gateway on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	log.Info("SERVER", "Gateway shutdown complete")
}
