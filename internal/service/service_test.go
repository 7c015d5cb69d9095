package service

import (
	"bytes"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/Dan9191/loan-service/internal/mocks"
	"github.com/Dan9191/loan-service/internal/repository"
	"github.com/Dan9191/loan-service/internal/utils"
)

var (
	_ ClientStore       = (*repository.Repository)(nil)
	_ LoanStore         = (*repository.Repository)(nil)
	_ ChargeStore       = (*repository.Repository)(nil)
	_ ReportStore       = (*repository.Repository)(nil)
	_ UserStore         = (*repository.Repository)(nil)
	_ NotificationStore = (*repository.Repository)(nil)
	_ ActivityStore     = (*repository.Repository)(nil)
	_ EntityStore       = (*repository.Repository)(nil)

	_ ClientStore = (*mocks.MockStore)(nil)
	_ ChargeStore = (*mocks.MockStore)(nil)
	_ ReportStore = (*mocks.MockStore)(nil)
	_ UserStore   = (*mocks.MockStore)(nil)
)

var testCipher = utils.NewDocumentCipher(bytes.Repeat([]byte{0x42}, 32), "pepper")

var fixedClock = Clock{
	Now:      func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	Location: time.UTC,
}

func newLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// newStore returns a mock whose activity writes always succeed.
func newStore() *mocks.MockStore {
	store := &mocks.MockStore{}
	store.On("CreateActivity", mock.Anything, mock.Anything).Return(nil).Maybe()
	return store
}

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

func sealCPF(cpf string) (string, string) {
	enc, idx, err := testCipher.Seal(cpf)
	if err != nil {
		panic(err)
	}
	return enc, idx
}
