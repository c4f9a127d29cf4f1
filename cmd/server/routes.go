package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"log/slog"
	"net/http"
	"pichu-go/http-server/calculate"
	getrates "pichu-go/http-server/rates/get"
	"pichu-go/internal/config"
	"pichu-go/internal/middleware/auth"
	"pichu-go/internal/rates"
)

func routes(cfg config.Config, log *slog.Logger, resolver *rates.Resolver) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	cache := getrates.CachePolicy{
		MaxAge:               cfg.Sheet.CacheMaxAge,
		StaleWhileRevalidate: cfg.Sheet.StaleWhileRevalidate,
	}

	router.Get("/api/rates", getrates.GetRates(log, resolver, cache, cfg.Sheet.FetchTimeout))
	router.Post("/api/calculate", calculate.Calculate(log, resolver, cfg.Sheet.FetchTimeout))

	// debug view of the resolution, only when credentials are configured
	if cfg.AdminLogin != "" && cfg.AdminPass != "" {
		adminRouter := chi.NewRouter()
		adminRouter.Use(auth.BasicAuth("Pichu Go Admin", cfg.AdminLogin, cfg.AdminPass))

		adminRouter.Get("/rates", getrates.InspectRates(log, resolver, cfg.Sheet.FetchTimeout))

		router.Mount("/api/admin", adminRouter)
	}

	return router
}
