package billing

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/loan-service/internal/apperrors"
)

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGenerateInstallments_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		req         PlanRequest
		wantAmounts []string
		wantDates   []string
	}{
		{
			name:        "monthly with residual on last",
			req:         PlanRequest{Principal: money("1000.00"), Count: 3, StartDate: date("2025-01-01"), Periodicity: Monthly},
			wantAmounts: []string{"333.33", "333.33", "333.34"},
			wantDates:   []string{"2025-01-01", "2025-02-01", "2025-03-01"},
		},
		{
			name:        "single weekly installment",
			req:         PlanRequest{Principal: money("100.00"), Count: 1, StartDate: date("2025-06-15"), Periodicity: Weekly},
			wantAmounts: []string{"100.00"},
			wantDates:   []string{"2025-06-15"},
		},
		{
			name:        "monthly from month end drifts after february",
			req:         PlanRequest{Principal: money("700.00"), Count: 7, StartDate: date("2025-01-31"), Periodicity: Monthly},
			wantAmounts: []string{"100.00", "100.00", "100.00", "100.00", "100.00", "100.00", "100.00"},
			wantDates:   []string{"2025-01-31", "2025-03-03", "2025-04-03", "2025-05-03", "2025-06-03", "2025-07-03", "2025-08-03"},
		},
		{
			name:        "daily",
			req:         PlanRequest{Principal: money("150.00"), Count: 3, StartDate: date("2025-03-01"), Periodicity: Daily},
			wantAmounts: []string{"50.00", "50.00", "50.00"},
			wantDates:   []string{"2025-03-01", "2025-03-02", "2025-03-03"},
		},
		{
			name:        "biweekly steps fifteen days",
			req:         PlanRequest{Principal: money("100.00"), Count: 3, StartDate: date("2025-02-01"), Periodicity: Biweekly},
			wantAmounts: []string{"33.33", "33.33", "33.34"},
			wantDates:   []string{"2025-02-01", "2025-02-16", "2025-03-03"},
		},
		{
			name:        "weekly across year end",
			req:         PlanRequest{Principal: money("200.00"), Count: 2, StartDate: date("2025-12-29"), Periodicity: Weekly},
			wantAmounts: []string{"100.00", "100.00"},
			wantDates:   []string{"2025-12-29", "2026-01-05"},
		},
		{
			name:        "leap year month end",
			req:         PlanRequest{Principal: money("300.00"), Count: 3, StartDate: date("2024-01-31"), Periodicity: Monthly},
			wantAmounts: []string{"100.00", "100.00", "100.00"},
			wantDates:   []string{"2024-01-31", "2024-03-02", "2024-04-02"},
		},
		{
			name:        "half cent rounds away from zero",
			req:         PlanRequest{Principal: money("0.05"), Count: 2, StartDate: date("2025-01-01"), Periodicity: Daily},
			wantAmounts: []string{"0.03", "0.02"},
			wantDates:   []string{"2025-01-01", "2025-01-02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateInstallments(tt.req)
			require.NoError(t, err)
			require.Len(t, got, len(tt.wantAmounts))

			for i, inst := range got {
				assert.Equal(t, i+1, inst.Number)
				assert.Equal(t, tt.wantAmounts[i], inst.Amount.StringFixed(2), "amount #%d", i+1)
				assert.Equal(t, tt.wantDates[i], inst.DueDate.String(), "due date #%d", i+1)
				assert.Equal(t, ChargePending, inst.Status)
			}
		})
	}
}

func TestGenerateInstallments_Invariants(t *testing.T) {
	principals := []string{"0.10", "1.00", "99.99", "1000.00", "1234.56", "100000.01"}
	counts := []int{1, 2, 3, 7, 10, 12, 30}
	periods := []Periodicity{Daily, Weekly, Biweekly, Monthly}
	start := date("2025-01-31")

	for _, p := range principals {
		for _, n := range counts {
			for _, per := range periods {
				req := PlanRequest{Principal: money(p), Count: n, StartDate: start, Periodicity: per}
				if req.Validate() != nil {
					// e.g. 0.10 cannot be split into 30 installments
					continue
				}
				got, err := GenerateInstallments(req)
				require.NoError(t, err)

				require.Len(t, got, n)
				assert.Equal(t, start, got[0].DueDate, "first due date is the start date")

				sum := decimal.Zero
				for i, inst := range got {
					sum = sum.Add(inst.Amount)
					assert.Equal(t, ChargePending, inst.Status)
					assert.True(t, inst.Amount.IsPositive())
					if i > 0 {
						assert.True(t, inst.DueDate.After(got[i-1].DueDate),
							"%s x%d %s: dates not increasing at %d", p, n, per, i)
					}
				}
				assert.True(t, sum.Equal(money(p)), "%s x%d: sum %s", p, n, sum)

				again, err := GenerateInstallments(req)
				require.NoError(t, err)
				assert.Equal(t, got, again)
			}
		}
	}
}

func TestGenerateInstallments_Validation(t *testing.T) {
	valid := PlanRequest{Principal: money("100.00"), Count: 2, StartDate: date("2025-01-01"), Periodicity: Monthly}

	tests := []struct {
		name  string
		mut   func(r *PlanRequest)
		field string
	}{
		{"zero principal", func(r *PlanRequest) { r.Principal = decimal.Zero }, "amount"},
		{"negative principal", func(r *PlanRequest) { r.Principal = money("-10") }, "amount"},
		{"sub-cent principal", func(r *PlanRequest) { r.Principal = money("10.005") }, "amount"},
		{"zero count", func(r *PlanRequest) { r.Count = 0 }, "installments"},
		{"negative count", func(r *PlanRequest) { r.Count = -3 }, "installments"},
		{"count above limit", func(r *PlanRequest) { r.Principal = money("9999999999.99"); r.Count = MaxInstallments + 1 }, "installments"},
		{"huge count", func(r *PlanRequest) { r.Principal = money("9999999999.99"); r.Count = 1_000_000_000 }, "installments"},
		{"unknown periodicity", func(r *PlanRequest) { r.Periodicity = 0 }, "periodicity"},
		{"invalid date", func(r *PlanRequest) { r.StartDate = civil.Date{Year: 2025, Month: 2, Day: 30} }, "start_date"},
		{"too many installments for amount", func(r *PlanRequest) { r.Principal = money("0.05"); r.Count = 10 }, "installments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mut(&req)

			got, err := GenerateInstallments(req)
			assert.Nil(t, got)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGenerateInstallments_MaxCount(t *testing.T) {
	req := PlanRequest{Principal: money("3600.00"), Count: MaxInstallments, StartDate: date("2025-01-01"), Periodicity: Daily}
	got, err := GenerateInstallments(req)
	require.NoError(t, err)
	require.Len(t, got, MaxInstallments)
	assert.Equal(t, "2025-12-26", got[MaxInstallments-1].DueDate.String())
}

func TestNextDueDate(t *testing.T) {
	d := date("2025-02-28")
	assert.Equal(t, "2025-03-01", NextDueDate(d, Daily).String())
	assert.Equal(t, "2025-03-07", NextDueDate(d, Weekly).String())
	assert.Equal(t, "2025-03-15", NextDueDate(d, Biweekly).String())
	assert.Equal(t, "2025-03-28", NextDueDate(d, Monthly).String())
}
