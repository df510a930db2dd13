package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/careflow/appointment-booking/internal/appointment"
	"github.com/careflow/appointment-booking/internal/messaging"
)

type RouterConfig struct {
	Service *appointment.Service
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Broker  *messaging.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Broker, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/appointments", createAppointmentHandler(cfg.Service))
	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/confirm", confirmAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Service))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Service))

	return r
}
