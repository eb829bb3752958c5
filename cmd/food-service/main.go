package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vincentmpho/food-service-go/internal/cart"
	"github.com/vincentmpho/food-service-go/internal/checkout"
	"github.com/vincentmpho/food-service-go/internal/config"
	"github.com/vincentmpho/food-service-go/internal/db"
	"github.com/vincentmpho/food-service-go/internal/events"
	"github.com/vincentmpho/food-service-go/internal/httpapi"
	"github.com/vincentmpho/food-service-go/internal/menu"
	"github.com/vincentmpho/food-service-go/internal/metrics"
	"github.com/vincentmpho/food-service-go/internal/order"
	"github.com/vincentmpho/food-service-go/internal/payment"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("open db pool: %v", err)
	}
	defer pool.Close()

	menuRepo := menu.NewPostgresRepository(pool)
	cartRepo := cart.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitURL != "" {
		rabbitConn := events.MustDialRabbit()
		defer rabbitConn.Close()

		seqDB, err := db.OpenSQL(cfg.DatabaseURL)
		if err != nil {
			logrus.Fatalf("open sequence db: %v", err)
		}
		defer seqDB.Close()

		publisher, err = events.NewRabbitPublisher(rabbitConn, events.NewSequenceRepository(seqDB))
		if err != nil {
			logrus.Fatalf("create event publisher: %v", err)
		}
	} else {
		logrus.Warn("RABBITMQ_URL not set, order events disabled")
	}

	provider, err := payment.NewHTTPProvider(cfg.PaymentProviderURL, &http.Client{Timeout: cfg.PaymentTimeout})
	if err != nil {
		logrus.Fatalf("create payment provider: %v", err)
	}
	orchestrator := payment.NewOrchestrator(cartRepo, provider, cfg.Currency)
	coordinator := checkout.NewCoordinator(cartRepo, orchestrator, orderRepo, publisher)

	srvMetrics := metrics.NewServerMetrics("api")

	router := httpapi.NewRouter(httpapi.Handlers{
		Menu:     httpapi.NewMenuHandler(menuRepo),
		Cart:     httpapi.NewCartHandler(cartRepo),
		Payment:  httpapi.NewPaymentHandler(orchestrator),
		Checkout: httpapi.NewCheckoutHandler(coordinator),
		Order:    httpapi.NewOrderHandler(orderRepo, publisher),
	}, srvMetrics)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("food-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logrus.Info("shutdown signal received")
	case err := <-errCh:
		logrus.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logrus.Errorf("publisher close error: %v", err)
	}
}
