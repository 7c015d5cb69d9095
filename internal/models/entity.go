package models

import (
	"strings"

	"github.com/Dan9191/loan-service/internal/apperrors"
)

// EntityKind names the record types that can be looked up by id alone.
type EntityKind int

const (
	EntityClient EntityKind = iota + 1
	EntityLoan
	EntityCharge
)

// ParseEntityKind accepts the route segment used by the UI.
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(s) {
	case "client", "clients", "cliente", "clientes", "pessoa", "pessoas":
		return EntityClient, nil
	case "loan", "loans", "emprestimo", "emprestimos":
		return EntityLoan, nil
	case "charge", "charges", "cobranca", "cobrancas":
		return EntityCharge, nil
	}
	return 0, apperrors.Invalid("kind", "unknown entity kind %q", s)
}

func (k EntityKind) String() string {
	switch k {
	case EntityClient:
		return "client"
	case EntityLoan:
		return "loan"
	case EntityCharge:
		return "charge"
	}
	return "unknown"
}
