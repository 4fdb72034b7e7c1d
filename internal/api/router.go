// Package api exposes the services as a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/spendbook/internal/auth"
	"github.com/mmynk/spendbook/internal/middleware"
	"github.com/mmynk/spendbook/internal/service"
)

// Services bundles everything the router serves.
type Services struct {
	Items        *service.ItemService
	Transactions *service.TransactionService
	Reports      *service.ReportService
	Settings     *service.SettingsService
	Auth         *service.AuthService
}

// Options configures the router. CORSOrigins may make credentialed
// cross-origin calls; when empty any origin may call without credentials.
type Options struct {
	JWT           *auth.JWTManager
	Registry      *prometheus.Registry
	SecureCookies bool
	CORSOrigins   []string
}

type handler struct {
	Services
	secureCookies bool
}

// NewRouter builds the HTTP handler for the whole API.
func NewRouter(svc Services, opts Options) http.Handler {
	h := &handler{Services: svc, secureCookies: opts.SecureCookies}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	if opts.Registry != nil {
		r.Use(middleware.NewMetrics(opts.Registry).Middleware)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(opts.JWT))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Post("/", h.addItem)
			r.Put("/", h.updateItem)
			r.Delete("/", h.removeItem)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.listTransactions)
			r.Post("/", h.addTransaction)
			r.Put("/", h.updateTransaction)
			r.Delete("/", h.removeTransaction)
			r.Get("/summary", h.summary)
			r.Get("/calendar", h.calendar)
			r.Get("/chart.png", h.chart)
		})

		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.updateSettings)
	})

	return r
}
