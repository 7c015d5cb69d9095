package repository

import (
	"context"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
)

// DashboardCounts returns the headline numbers in a single round trip
func (r *Repository) DashboardCounts(ctx context.Context) (models.DashboardCounts, error) {
	var out models.DashboardCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM loans WHERE status = $1),
			(SELECT COUNT(*) FROM charges WHERE status IN ($2, $3)),
			(SELECT COALESCE(SUM(amount), 0) FROM charges WHERE status IN ($2, $3))`,
		string(billing.LoanOpen), string(billing.ChargePending), string(billing.ChargeOverdue),
	).Scan(&out.Clients, &out.OpenLoans, &out.PendingCharges, &out.PendingAmount)
	if err != nil {
		return models.DashboardCounts{}, translate("failed to load dashboard counts", err)
	}
	return out, nil
}
