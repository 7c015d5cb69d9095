package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a borrower ("pessoa").
type Client struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CPF        string    `json:"cpf"` // Decrypted for response
	CPFHMAC    string    `json:"-"`
	RG         string    `json:"rg"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	ZipCode    string    `json:"zip_code"`
	ReferredBy *string   `json:"referred_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Loans []Loan `json:"loans,omitempty"`
}

// ClientSearch narrows queries to clients whose name contains Name or whose
// CPF blind index equals CPFHMAC. Both empty means no filter.
type ClientSearch struct {
	Name    string
	CPFHMAC string
}

// Empty reports whether the search has no criteria.
func (s ClientSearch) Empty() bool {
	return s.Name == "" && s.CPFHMAC == ""
}
