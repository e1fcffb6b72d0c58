/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. httprate:   Per-IP rate limit on the API surface

ROUTE GROUPS:
  /api/companies/{companyID}/*   Schedule, periods, payments, summary
  /api/employees/*               Employee management and clock actions
  /api/clock/*                   Group clock operations
  /api/jobs, /api/employee-jobs  Job management

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(300, time.Minute))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Company-scoped routes
		r.Route("/companies/{companyID}", func(r chi.Router) {
			r.Get("/schedule", h.GetPaySchedule)
			r.Put("/schedule", h.SetPaySchedule)

			r.Route("/periods", func(r chi.Router) {
				r.Get("/current", h.GetCurrentPeriod)
				r.Get("/recent", h.ListRecentPeriods)
				r.Get("/{number}", h.GetPeriodByNumber)
			})

			r.Get("/summary", h.GetSummary)
			r.Get("/employees", h.ListEmployees)

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.ListPayments)
				r.Post("/calculate", h.CalculatePayments)
				r.Post("/status", h.BulkUpdatePaymentStatus)
			})
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/shifts", h.GetEmployeeShifts)
			r.Get("/{id}/clock", h.GetClockStatus)
			r.Post("/{id}/clock", h.ToggleClock)
		})

		// Group clock routes
		r.Route("/clock", func(r chi.Router) {
			r.Post("/group-in", h.GroupClockIn)
			r.Post("/group-out", h.GroupClockOut)
		})

		// Job routes
		r.Post("/jobs", h.CreateJob)
		r.Post("/employee-jobs", h.AssignJob)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
