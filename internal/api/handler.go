package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tour-booking/internal/auth"
	"tour-booking/internal/booking"
	"tour-booking/internal/logger"
	"tour-booking/internal/payment"
	"tour-booking/internal/storage"
)

// ClientFactory builds a payment client from a settings snapshot; tests
// swap it to point at an httptest server.
type ClientFactory func(cfg payment.Config) *payment.Client

// Handler holds the HTTP surface's dependencies.
type Handler struct {
	DB        *storage.DB
	Booking   *booking.Service
	Auth      *auth.Middleware
	Log       *logger.Logger
	NewClient ClientFactory
}

func NewHandler(db *storage.DB, svc *booking.Service, authMW *auth.Middleware, log *logger.Logger, factory ClientFactory) *Handler {
	if factory == nil {
		factory = func(cfg payment.Config) *payment.Client {
			return payment.NewClient(cfg, log)
		}
	}
	return &Handler{
		DB:        db,
		Booking:   svc,
		Auth:      authMW,
		Log:       log,
		NewClient: factory,
	}
}

// Router wires every route behind the shared middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(h.Auth.Authenticate)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tours", h.ListTours)
		r.Get("/tours/{id}", h.GetTour)
		r.Post("/bookings", h.CreateBooking)
		r.Get("/bookings/availability/{date}", h.CheckAvailability)
		r.Post("/custom-tours", h.CreateCustomTour)
		r.Post("/create-clover-payment", h.CreatePayment)
		r.Post("/clover/webhook", h.CloverWebhook)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireUser)
			r.Get("/auth/user", h.CurrentUser)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.Auth.RequireAdmin)

			r.Get("/bookings", h.AdminListBookings)
			r.Post("/bookings", h.AdminCreateBooking)
			r.Get("/bookings/{id}/checkin", h.AdminBookingCheckIn)

			r.Get("/tours", h.AdminListTours)
			r.Post("/tours", h.AdminCreateTour)
			r.Put("/tours/{id}", h.AdminUpdateTour)
			r.Delete("/tours/{id}", h.AdminDeleteTour)

			r.Get("/custom-tours", h.AdminListCustomTours)
			r.Put("/custom-tours/{id}", h.AdminUpdateCustomTour)

			r.Get("/settings", h.AdminGetSettings)
			r.Post("/settings", h.AdminUpsertSettings)
			r.Post("/settings/test-connection", h.AdminTestConnection)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAdmin)
			r.Get("/clover/dashboard", h.CloverDashboard)
		})
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Log.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", ww.Status()), time.Since(start).String())
	})
}
