package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/innledger/internal/event"
	"github.com/MrJamesThe3rd/innledger/internal/http/checkout"
	"github.com/MrJamesThe3rd/innledger/internal/http/dashboard"
	"github.com/MrJamesThe3rd/innledger/internal/http/export"
	"github.com/MrJamesThe3rd/innledger/internal/http/importcsv"
	"github.com/MrJamesThe3rd/innledger/internal/http/ledger"
	"github.com/MrJamesThe3rd/innledger/internal/http/matching"
	authMiddleware "github.com/MrJamesThe3rd/innledger/internal/http/middleware"
	"github.com/MrJamesThe3rd/innledger/internal/http/payment"
)

type Handlers struct {
	Ledger    *ledger.Handler
	Payments  *payment.Handler
	Dashboard *dashboard.Handler
	Checkout  *checkout.Handler
	Import    *importcsv.Handler
	Matching  *matching.Handler
	Export    *export.Handler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func New(h Handlers, hub *event.Hub, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/ws/events", func(w http.ResponseWriter, r *http.Request) {
		event.ServeWS(hub, opts.JWTSecret, w, r)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate(opts.JWTSecret))

		r.Route("/payments", h.Payments.Routes)
		r.Route("/dashboard", h.Dashboard.Routes)

		r.Route("/ledger", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Ledger.Routes(r)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Checkout.Routes(r)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/matching", h.Matching.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
