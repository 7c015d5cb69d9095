package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/service"
)

// ListCharges handles GET /api/charges?loan_id=&status=A,B&due_from=&due_to=&busca=
func (h *Handler) ListCharges(w http.ResponseWriter, r *http.Request) {
	q, err := chargeQuery(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	charges, err := h.svc.Charges.List(r.Context(), q)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, charges)
}

func chargeQuery(r *http.Request) (service.ChargeQuery, error) {
	var q service.ChargeQuery
	var err error
	if q.LoanID, err = queryID(r, "loan_id", "emprestimo_id"); err != nil {
		return q, err
	}
	if v := query(r, "status"); v != "" {
		for _, part := range strings.Split(v, ",") {
			st, err := billing.ParseChargeStatus(part)
			if err != nil {
				return q, err
			}
			q.Statuses = append(q.Statuses, st)
		}
	}
	if q.DueFrom, err = queryDate(r, "due_from"); err != nil {
		return q, err
	}
	if q.DueTo, err = queryDate(r, "due_to"); err != nil {
		return q, err
	}
	q.Search = query(r, "busca", "search")
	return q, nil
}

// GetCharge handles GET /api/charges/{id}
func (h *Handler) GetCharge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.svc.Charges.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCharge handles PUT /api/charges/{id}
func (h *Handler) UpdateCharge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var in service.ChargeUpdate
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.svc.Charges.Update(r.Context(), id, in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListPayments handles GET /api/charges/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	payments, err := h.svc.Charges.ListPayments(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// RegisterPayment handles POST /api/payments
func (h *Handler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	var in service.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}
	p, err := h.svc.Charges.RegisterPayment(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// CheckOverdue handles POST /api/overdue-check
func (h *Handler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	today := h.svc.Charges.Today()
	n, err := h.svc.Charges.MarkOverdue(r.Context(), today)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": n, "date": today})
}
