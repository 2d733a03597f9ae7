package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/maktse/pollloop-backend/env"
	"github.com/maktse/pollloop-backend/middleware"
)

func SetupMiddlewares(r *chi.Mux) {
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Expo-Push-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithDeviceInfo)
	r.Use(middleware.NoCache)
}

func New(h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + env.APP_PORT,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
