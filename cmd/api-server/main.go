package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/careflow/appointment-booking/internal/api"
	"github.com/careflow/appointment-booking/internal/appointment"
	"github.com/careflow/appointment-booking/internal/config"
	"github.com/careflow/appointment-booking/internal/db"
	"github.com/careflow/appointment-booking/internal/messaging"
	redisclient "github.com/careflow/appointment-booking/internal/redis"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	schemaCtx, cancelSchema := context.WithTimeout(rootCtx, 10*time.Second)
	err = db.EnsureSchema(schemaCtx, pgPool)
	cancelSchema()
	if err != nil {
		log.Fatalf("schema error: %v", err)
	}

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	// Connect RabbitMQ and declare the appointments topology
	broker, err := messaging.Connect(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("rabbitmq connection error: %v", err)
	}
	defer func() {
		if err := broker.Close(); err != nil {
			log.Printf("error closing rabbitmq: %v", err)
		}
	}()
	log.Println("connected to RabbitMQ")

	var repo appointment.Repository = appointment.NewPgRepository(pgPool)
	repo = appointment.NewCachedRepository(repo, rdb, cfg.CacheTTL)

	publisher := messaging.NewPublisher(broker)
	svc := appointment.NewService(repo, publisher)

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		PgPool:  pgPool,
		Redis:   rdb,
		Broker:  broker,
		Env:     cfg.Env,
		Version: version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	log.Println("api-server stopped")
}
