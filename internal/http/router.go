package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/salestream/server/internal/http/importcsv"
	"github.com/salestream/server/internal/http/realtime"
	"github.com/salestream/server/internal/http/sale"
)

func New(
	salesV1 *sale.Handler,
	importV1 *importcsv.Handler,
	channel *realtime.Handler,
	allowedOrigin string,
	timeout time.Duration,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Exactly one browser origin is allowed; everything else is rejected
	// at the transport boundary.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// The timeout covers the REST surface only; websocket connections under
	// /ws are long-lived and stay exempt.
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Route("/sales", func(r chi.Router) {
			salesV1.Routes(r)
			importV1.Routes(r)
		})
	})

	router.Route("/ws", channel.Routes)

	return router
}
