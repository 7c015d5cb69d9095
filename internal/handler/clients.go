package handler

import (
	"net/http"

	"github.com/Dan9191/loan-service/internal/service"
)

// ListClients handles GET /api/clients?busca=
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Clients.List(r.Context(), query(r, "busca", "search"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// GetClient handles GET /api/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.svc.Clients.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateClient handles POST /api/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in service.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.svc.Clients.Create(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateClient handles PUT /api/clients/{id}
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var in service.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.svc.Clients.Update(r.Context(), id, in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteClient handles DELETE /api/clients/{id}
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.svc.Clients.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
