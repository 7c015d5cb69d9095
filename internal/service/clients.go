package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/utils"
)

// Clients manages borrowers
type Clients struct {
	store      ClientStore
	docs       documents
	activities *Activities
	log        *logrus.Logger
}

// NewClients initializes the client service
func NewClients(store ClientStore, cipher *utils.DocumentCipher, activities *Activities, log *logrus.Logger) *Clients {
	return &Clients{store: store, docs: documents{cipher: cipher, log: log}, activities: activities, log: log}
}

// ClientInput is the editable part of a client.
type ClientInput struct {
	Name       string  `json:"name"`
	CPF        string  `json:"cpf"`
	RG         string  `json:"rg"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	ZipCode    string  `json:"zip_code"`
	ReferredBy *string `json:"referred_by"`
}

func (in *ClientInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	in.ReferredBy = trimPtr(in.ReferredBy)
	if in.Name == "" {
		return apperrors.Invalid("name", "is required")
	}
	if len(in.State) > 2 {
		return apperrors.Invalid("state", "must be a two-letter code")
	}
	if !utils.ValidCPF(in.CPF) {
		return apperrors.Invalid("cpf", "invalid CPF")
	}
	return nil
}

// List returns clients whose name or CPF matches busca.
func (s *Clients) List(ctx context.Context, busca string) ([]models.Client, error) {
	clients, err := s.store.ListClients(ctx, s.docs.search(busca))
	if err != nil {
		return nil, err
	}
	for i := range clients {
		s.docs.reveal(&clients[i])
	}
	return clients, nil
}

// Get returns a client with every loan and charge.
func (s *Clients) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	loans, err := s.store.ListLoans(ctx, models.LoanFilter{ClientID: &id})
	if err != nil {
		return nil, err
	}
	for i := range loans {
		loans[i].Client = nil
	}
	c.Loans = loans
	s.docs.reveal(c)
	return c, nil
}

// Create registers a new client. A CPF already in use is a conflict.
func (s *Clients) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	c := &models.Client{}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	s.log.WithField("client_id", c.ID).Info("Client created")
	s.activities.Record(ctx, models.ActionCreate, "cliente", c.ID.String(), map[string]any{"nome": c.Name})
	s.docs.reveal(c)
	return c, nil
}

// Update overwrites a client.
func (s *Clients) Update(ctx context.Context, id uuid.UUID, in ClientInput) (*models.Client, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, err
	}

	s.log.WithField("client_id", c.ID).Info("Client updated")
	s.activities.Record(ctx, models.ActionUpdate, "cliente", c.ID.String(), map[string]any{"nome": c.Name})
	s.docs.reveal(c)
	return c, nil
}

// Delete removes a client with its loans and charges.
func (s *Clients) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.log.WithField("client_id", id).Info("Client deleted")
	s.activities.Record(ctx, models.ActionDelete, "cliente", id.String(), nil)
	return nil
}

// apply copies the input onto c, sealing the CPF.
func (s *Clients) apply(ctx context.Context, c *models.Client, in ClientInput) error {
	enc, index, err := s.docs.cipher.Seal(in.CPF)
	if err != nil {
		return err
	}
	taken, err := s.store.ClientCPFTaken(ctx, index, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Conflict("CPF already registered")
	}

	c.Name = in.Name
	c.CPF = enc
	c.CPFHMAC = index
	c.RG = strings.TrimSpace(in.RG)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.State = in.State
	c.ZipCode = utils.OnlyDigits(in.ZipCode)
	c.ReferredBy = in.ReferredBy
	return nil
}
