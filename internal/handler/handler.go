package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/middleware"
	"github.com/Dan9191/loan-service/internal/service"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the business services the handlers call.
type Services struct {
	Clients       *service.Clients
	Loans         *service.Loans
	Charges       *service.Charges
	Reports       *service.Reports
	Users         *service.Users
	Notifications *service.Notifications
	Activities    *service.Activities
	Entities      *service.Entities
}

type Handler struct {
	svc Services
	db  Pinger
	log *logrus.Logger
}

func NewHandler(svc Services, db Pinger, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, db: db, log: log}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// handleError maps the error taxonomy onto HTTP status codes. Unexpected
// errors are logged and answered without details.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, apperrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFromContext(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Invalid("body", "invalid JSON: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, apperrors.Invalid(name, "invalid id")
	}
	return id, nil
}

// query returns the first non-empty value among the given keys.
func query(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

func queryID(r *http.Request, keys ...string) (*uuid.UUID, error) {
	v := query(r, keys...)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperrors.Invalid(keys[0], "invalid id")
	}
	return &id, nil
}

func queryDate(r *http.Request, keys ...string) (*civil.Date, error) {
	v := query(r, keys...)
	if v == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return nil, apperrors.Invalid(keys[0], "expected YYYY-MM-DD")
	}
	return &d, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := query(r, key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperrors.Invalid(key, "must be a non-negative integer")
	}
	return n, nil
}

func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return id, nil
}
