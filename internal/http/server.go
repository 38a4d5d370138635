package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router *chi.Mux
}

func NewServer(handler *Handler, corsOrigins []string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors(corsOrigins))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Restaurant Order Relay API",
			"status":  "running",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", handler.Signup)
		r.Post("/login", handler.OwnerLogin)
	})

	r.Route("/api/owner", func(r chi.Router) {
		r.Use(handler.RequireOwner)
		r.Get("/status", handler.OwnerStatus)
		r.Post("/fetch-orders", handler.FetchOrders)
		r.Get("/order-history", handler.OrderHistory)
		r.Post("/submit-response", handler.SubmitResponse)
		r.Post("/auto-reject-pending", handler.AutoRejectPending)
		r.Post("/mark-sent", handler.MarkAllSent)
		r.Get("/earnings-summary", handler.EarningsSummary)
		r.Get("/earnings-transactions", handler.EarningsTransactions)
		r.Get("/earnings-monthly", handler.EarningsMonthly)
		r.Get("/profile", handler.GetProfile)
		r.Put("/profile", handler.UpdateProfile)
		r.Put("/bank-details", handler.UpdateBankDetails)
		r.Post("/push-token", handler.RegisterPushToken)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", handler.AdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAdmin)
			r.Get("/pending-owners", handler.PendingOwners)
			r.Get("/all-owners", handler.AllOwners)
			r.Get("/all-restaurants", handler.AllRestaurants)
			r.Put("/approve-owner/{ownerId}", handler.ApproveOwner)
			r.Put("/reject-owner/{ownerId}", handler.RejectOwner)
			r.Put("/assign-uid/{ownerId}", handler.AssignUID)
		})
	})

	r.Route("/api/webhook", func(r chi.Router) {
		r.Post("/receive-orders", handler.ReceiveOrders)
		r.Post("/receive-order", handler.ReceiveOrder)
	})

	return &Server{Router: r}
}

func cors(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	allowAll := len(origins) == 0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
