package handler

import (
	"net/http"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/service"
)

// ListLoans handles GET /api/loans?client_id=&status=&periodicity=&busca=
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	q, err := loanQuery(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	loans, err := h.svc.Loans.List(r.Context(), q)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func loanQuery(r *http.Request) (service.LoanQuery, error) {
	var q service.LoanQuery
	clientID, err := queryID(r, "client_id", "pessoa_id")
	if err != nil {
		return q, err
	}
	q.ClientID = clientID
	if v := query(r, "status"); v != "" {
		st, err := billing.ParseLoanStatus(v)
		if err != nil {
			return q, err
		}
		q.Status = &st
	}
	if v := query(r, "periodicity", "periodicidade"); v != "" {
		p, err := billing.ParsePeriodicity(v)
		if err != nil {
			return q, err
		}
		q.Periodicity = &p
	}
	q.Search = query(r, "busca", "search")
	return q, nil
}

// GetLoan handles GET /api/loans/{id}
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	loan, err := h.svc.Loans.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// CreateLoan handles POST /api/loans
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var in service.LoanInput
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	loan, err := h.svc.Loans.Create(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

type loanStatusRequest struct {
	Status billing.LoanStatus `json:"status"`
}

// UpdateLoan handles PUT /api/loans/{id}
func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req loanStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	status, err := billing.ParseLoanStatus(string(req.Status))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	loan, err := h.svc.Loans.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// DeleteLoan handles DELETE /api/loans/{id}
func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.svc.Loans.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
