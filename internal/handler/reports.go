package handler

import "net/http"

// OpenLoans handles GET /api/reports/open-loans?busca=
func (h *Handler) OpenLoans(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.OpenLoans(r.Context(), query(r, "busca", "search"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SettledLoans handles GET /api/reports/settled-loans?busca=&from=&to=
func (h *Handler) SettledLoans(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from", "dataInicio")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	to, err := queryDate(r, "to", "dataFim")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	report, err := h.svc.Reports.SettledLoans(r.Context(), query(r, "busca", "search"), from, to)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// PendingCharges handles GET /api/reports/pending-charges?busca=&status=
func (h *Handler) PendingCharges(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.PendingCharges(r.Context(), query(r, "busca", "search"), query(r, "status"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ClientReport handles GET /api/reports/clients/{id}
func (h *Handler) ClientReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	report, err := h.svc.Reports.ClientReport(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Dashboard handles GET /api/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Reports.Dashboard(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
