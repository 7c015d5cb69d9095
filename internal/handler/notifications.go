package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/service"
)

// ListNotifications handles GET /api/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	list, err := h.svc.Notifications.List(r.Context(), caller)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateNotification handles POST /api/notifications
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var in service.NotificationInput
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	n, err := h.svc.Notifications.Create(r.Context(), caller, in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// MarkNotificationRead handles POST /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.svc.Notifications.MarkRead(r.Context(), caller, id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	n, err := h.svc.Notifications.MarkAllRead(r.Context(), caller)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// ListActivities handles GET /api/activities?client_id=&loan_id=&limit=
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	list, err := h.svc.Activities.List(r.Context(), models.ActivityFilter{
		ClientID: query(r, "client_id", "pessoa_id"),
		LoanID:   query(r, "loan_id", "emprestimo_id"),
		Limit:    limit,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateActivity handles POST /api/activities
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var in service.ActivityInput
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	a, err := h.svc.Activities.Create(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// EntityExists handles GET /api/entities/{kind}/{id}
func (h *Handler) EntityExists(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseEntityKind(mux.Vars(r)["kind"])
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.svc.Entities.Exists(r.Context(), kind, id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exists": true, "kind": kind.String(), "id": id})
}

// HealthCheck handles GET /api/health-check
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "database": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
}
