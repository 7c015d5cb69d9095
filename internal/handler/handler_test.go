package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/mocks"
	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/service"
	"github.com/Dan9191/loan-service/internal/utils"
)

const (
	testSecret = "handler-secret"
	testOrigin = "http://localhost:3000"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fixture struct {
	store  *mocks.MockStore
	router http.Handler
	userID uuid.UUID
}

func newFixture(t *testing.T, pingErr error) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := &mocks.MockStore{}
	store.On("CreateActivity", mock.Anything, mock.Anything).Return(nil).Maybe()

	cipher := utils.NewDocumentCipher(bytes.Repeat([]byte{7}, 32), "pepper")
	clock := service.Clock{
		Now:      func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
	activities := service.NewActivities(store, log)
	h := NewHandler(Services{
		Clients:       service.NewClients(store, cipher, activities, log),
		Loans:         service.NewLoans(store, cipher, activities, log),
		Charges:       service.NewCharges(store, cipher, activities, clock, log),
		Reports:       service.NewReports(store, cipher, clock, log),
		Users:         service.NewUsers(store, log, testSecret, time.Hour),
		Notifications: service.NewNotifications(store, log),
		Activities:    activities,
		Entities:      service.NewEntities(store),
	}, fakePinger{err: pingErr}, log)

	userID := uuid.New()
	store.On("GetUser", mock.Anything, userID).Return(&models.User{ID: userID, Active: true}, nil).Maybe()

	return &fixture{
		store:  store,
		router: NewRouter(h, log, testSecret, []string{testOrigin}),
		userID: userID,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   f.userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health-check", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"connected"}`, rec.Body.String())

	f = newFixture(t, errors.New("connection refused"))
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health-check", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDisabledUserTokenRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.userID = uuid.New()
	f.store.On("GetUser", mock.Anything, f.userID).Return(&models.User{ID: f.userID, Active: false}, nil)

	rec := f.do(t, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.store.AssertNotCalled(t, "ListClients", mock.Anything, mock.Anything)

	f.userID = uuid.New()
	f.store.On("GetUser", mock.Anything, f.userID).Return(nil, apperrors.NotFound("user"))
	rec = f.do(t, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t, nil)
	for _, path := range []string{"/api/clients", "/api/loans", "/api/dashboard", "/api/users"} {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	f.store.AssertNotCalled(t, "ListClients", mock.Anything, mock.Anything)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/loans", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateLoan(t *testing.T) {
	f := newFixture(t, nil)
	clientID := uuid.New()
	f.store.On("GetClient", mock.Anything, clientID).Return(&models.Client{ID: clientID, Name: "Maria"}, nil)
	f.store.On("CreateLoan", mock.Anything, mock.Anything).Return(nil)
	f.store.On("CreateCharges", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/loans", map[string]any{
		"client_id":    clientID,
		"amount":       "100.00",
		"start_date":   "2025-01-31",
		"periodicity":  "MENSAL",
		"installments": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var loan models.Loan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loan))
	assert.Equal(t, billing.LoanOpen, loan.Status)
	assert.Equal(t, billing.Monthly, loan.Periodicity)
	require.Len(t, loan.Charges, 3)
	assert.Equal(t, "2025-01-31", loan.Charges[0].DueDate.String())
	assert.Equal(t, "2025-03-03", loan.Charges[1].DueDate.String())
	assert.Equal(t, "2025-04-03", loan.Charges[2].DueDate.String())
	assert.Equal(t, "33.33", loan.Charges[0].Amount.StringFixed(2))
	assert.Equal(t, "33.34", loan.Charges[2].Amount.StringFixed(2))
}

func TestCreateLoan_BadRequests(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/loans", `{"amount": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/loans", map[string]any{
		"client_id":    uuid.New(),
		"amount":       "0",
		"start_date":   "2025-01-31",
		"periodicity":  "MENSAL",
		"installments": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Details, "amount")

	rec = f.do(t, http.MethodPost, "/api/loans", map[string]any{"periodicity": "ANUAL"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.store.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
}

func TestCreateLoan_ChargeFailureIsInternalError(t *testing.T) {
	f := newFixture(t, nil)
	clientID := uuid.New()
	f.store.On("GetClient", mock.Anything, clientID).Return(&models.Client{ID: clientID}, nil)
	f.store.On("CreateLoan", mock.Anything, mock.Anything).Return(nil)
	f.store.On("CreateCharges", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.Persistence("failed to create charges", errors.New("disk full")))
	f.store.On("DeleteLoan", mock.Anything, mock.Anything).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/loans", map[string]any{
		"client_id":    clientID,
		"amount":       "100.00",
		"start_date":   "2025-01-31",
		"periodicity":  "SEMANAL",
		"installments": 3,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Empty(t, resp.Details)
	assert.NotContains(t, rec.Body.String(), "disk full")
	f.store.AssertCalled(t, "DeleteLoan", mock.Anything, mock.Anything)
}

func TestGetLoan_Errors(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/loans/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := uuid.New()
	f.store.On("GetLoan", mock.Anything, id).Return(nil, apperrors.NotFound("loan"))
	rec = f.do(t, http.MethodGet, "/api/loans/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLoans_Filters(t *testing.T) {
	f := newFixture(t, nil)
	clientID := uuid.New()
	status := billing.LoanOpen
	weekly := billing.Weekly
	f.store.On("ListLoans", mock.Anything, models.LoanFilter{
		ClientID:    &clientID,
		Status:      &status,
		Periodicity: &weekly,
		Search:      models.ClientSearch{Name: "maria"},
	}).Return([]models.Loan{}, nil)

	rec := f.do(t, http.MethodGet, "/api/loans?pessoa_id="+clientID.String()+"&status=em_andamento&periodicity=weekly&busca=maria", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/loans?status=CANCELADO", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterPayment_AlreadyPaid(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.New()
	f.store.On("GetCharge", mock.Anything, id).Return(&models.Charge{ID: id, Status: billing.ChargePaid}, nil)

	rec := f.do(t, http.MethodPost, "/api/payments", map[string]any{"charge_id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckOverdue(t *testing.T) {
	f := newFixture(t, nil)
	f.store.On("MarkOverdue", mock.Anything, mock.Anything).Return(int64(2), nil)

	rec := f.do(t, http.MethodPost, "/api/overdue-check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":2,"date":"2025-03-10"}`, rec.Body.String())
}

func TestPendingChargesReport(t *testing.T) {
	f := newFixture(t, nil)
	f.store.On("ListCharges", mock.Anything, models.ChargeFilter{
		Statuses: []billing.ChargeStatus{billing.ChargePending, billing.ChargeOverdue},
	}).Return([]models.Charge{{ID: uuid.New(), DueDate: mustDate("2025-03-05"), Status: billing.ChargeOverdue}}, nil)

	rec := f.do(t, http.MethodGet, "/api/reports/pending-charges?status=TODOS", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"days_overdue":5`)
}

func TestEntityExists(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.New()
	f.store.On("EntityExists", mock.Anything, models.EntityClient, id).Return(true, nil)
	f.store.On("EntityExists", mock.Anything, models.EntityCharge, id).Return(false, nil)

	rec := f.do(t, http.MethodGet, "/api/entities/pessoa/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exists":true`)

	rec = f.do(t, http.MethodGet, "/api/entities/cobranca/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/entities/planet/"+id.String(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationsUseCaller(t *testing.T) {
	f := newFixture(t, nil)
	f.store.On("ListNotifications", mock.Anything, f.userID, service.NotificationListLimit).
		Return([]models.Notification{{ID: uuid.New(), UserID: f.userID, Title: "Oi"}}, nil)
	f.store.On("MarkAllNotificationsRead", mock.Anything, f.userID).Return(int64(1), nil)

	rec := f.do(t, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/notifications/read-all", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	f.store.On("FindUserByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.NotFound("user"))

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"x"}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Error)
}

func TestCreateClient_Conflict(t *testing.T) {
	f := newFixture(t, nil)
	f.store.On("ClientCPFTaken", mock.Anything, mock.Anything, uuid.Nil).Return(true, nil)

	rec := f.do(t, http.MethodPost, "/api/clients", map[string]any{"name": "Maria", "cpf": "529.982.247-25"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func mustDate(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
