package handler

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/middleware"
)

// NewRouter wires every route. Everything under /api except login and the
// health check requires a bearer token.
func NewRouter(h *Handler, log *logrus.Logger, jwtSecret string, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLogger(log))

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/health-check", h.HealthCheck).Methods(http.MethodGet)

	// Protected routes
	auth := api.NewRoute().Subrouter()
	auth.Use(middleware.AuthMiddleware(jwtSecret, h.svc.Users))

	auth.HandleFunc("/clients", h.ListClients).Methods(http.MethodGet)
	auth.HandleFunc("/clients", h.CreateClient).Methods(http.MethodPost)
	auth.HandleFunc("/clients/{id}", h.GetClient).Methods(http.MethodGet)
	auth.HandleFunc("/clients/{id}", h.UpdateClient).Methods(http.MethodPut)
	auth.HandleFunc("/clients/{id}", h.DeleteClient).Methods(http.MethodDelete)

	auth.HandleFunc("/loans", h.ListLoans).Methods(http.MethodGet)
	auth.HandleFunc("/loans", h.CreateLoan).Methods(http.MethodPost)
	auth.HandleFunc("/loans/{id}", h.GetLoan).Methods(http.MethodGet)
	auth.HandleFunc("/loans/{id}", h.UpdateLoan).Methods(http.MethodPut)
	auth.HandleFunc("/loans/{id}", h.DeleteLoan).Methods(http.MethodDelete)

	auth.HandleFunc("/charges", h.ListCharges).Methods(http.MethodGet)
	auth.HandleFunc("/charges/{id}", h.GetCharge).Methods(http.MethodGet)
	auth.HandleFunc("/charges/{id}", h.UpdateCharge).Methods(http.MethodPut)
	auth.HandleFunc("/charges/{id}/payments", h.ListPayments).Methods(http.MethodGet)
	auth.HandleFunc("/payments", h.RegisterPayment).Methods(http.MethodPost)
	auth.HandleFunc("/overdue-check", h.CheckOverdue).Methods(http.MethodPost)

	auth.HandleFunc("/reports/open-loans", h.OpenLoans).Methods(http.MethodGet)
	auth.HandleFunc("/reports/settled-loans", h.SettledLoans).Methods(http.MethodGet)
	auth.HandleFunc("/reports/pending-charges", h.PendingCharges).Methods(http.MethodGet)
	auth.HandleFunc("/reports/clients/{id}", h.ClientReport).Methods(http.MethodGet)
	auth.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)

	auth.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	auth.HandleFunc("/notifications", h.CreateNotification).Methods(http.MethodPost)
	auth.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods(http.MethodPost)
	auth.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	auth.HandleFunc("/activities", h.ListActivities).Methods(http.MethodGet)
	auth.HandleFunc("/activities", h.CreateActivity).Methods(http.MethodPost)

	auth.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	auth.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	auth.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	auth.HandleFunc("/users/{id}", h.UpdateUser).Methods(http.MethodPut)
	auth.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)

	auth.HandleFunc("/entities/{kind}/{id}", h.EntityExists).Methods(http.MethodGet)

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})(r)
}
