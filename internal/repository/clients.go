package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
)

const clientColumns = `c.id, c.name, c.cpf_enc, c.cpf_hmac, c.rg, c.phone, c.address, c.city, c.state,
	c.zip_code, c.referred_by, c.created_at, c.updated_at`

// clientRow scans clientColumns. CPF holds the encrypted value.
type clientRow struct {
	c          models.Client
	referredBy sql.NullString
}

func (r *clientRow) targets() []any {
	return []any{&r.c.ID, &r.c.Name, &r.c.CPF, &r.c.CPFHMAC, &r.c.RG, &r.c.Phone, &r.c.Address,
		&r.c.City, &r.c.State, &r.c.ZipCode, &r.referredBy, &r.c.CreatedAt, &r.c.UpdatedAt}
}

func (r *clientRow) client() models.Client {
	if r.referredBy.Valid {
		v := r.referredBy.String
		r.c.ReferredBy = &v
	}
	return r.c
}

func scanClient(s rowScanner) (models.Client, error) {
	var row clientRow
	if err := s.Scan(row.targets()...); err != nil {
		return models.Client{}, err
	}
	return row.client(), nil
}

// ListClients returns clients ordered by name
func (r *Repository) ListClients(ctx context.Context, search models.ClientSearch) ([]models.Client, error) {
	var w where
	w.addClientSearch("c.id", search)
	query := `SELECT ` + clientColumns + ` FROM clients c` + w.String() + ` ORDER BY c.name`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, translate("failed to list clients", err)
	}
	defer rows.Close()

	out := make([]models.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, translate("failed to scan client", err)
		}
		out = append(out, c)
	}
	return out, translate("failed to list clients", rows.Err())
}

// GetClient retrieves a client by id
func (r *Repository) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.id = $1`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("client")
	}
	if err != nil {
		return nil, translate("failed to get client", err)
	}
	return &c, nil
}

// ClientCPFTaken reports whether another client already uses the CPF index.
func (r *Repository) ClientCPFTaken(ctx context.Context, cpfHMAC string, except uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE cpf_hmac = $1 AND id <> $2)`, cpfHMAC, except).Scan(&taken)
	if err != nil {
		return false, translate("failed to check cpf", err)
	}
	return taken, nil
}

// CreateClient creates a new client in the database
func (r *Repository) CreateClient(ctx context.Context, c *models.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
		INSERT INTO clients (id, name, cpf_enc, cpf_hmac, rg, phone, address, city, state, zip_code, referred_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.CPF, c.CPFHMAC, c.RG, c.Phone, c.Address,
		c.City, c.State, c.ZipCode, c.ReferredBy).Scan(&c.CreatedAt, &c.UpdatedAt)
	return translate("failed to create client", err)
}

// UpdateClient overwrites every editable column
func (r *Repository) UpdateClient(ctx context.Context, c *models.Client) error {
	query := `
		UPDATE clients
		SET name = $2, cpf_enc = $3, cpf_hmac = $4, rg = $5, phone = $6, address = $7, city = $8, state = $9,
			zip_code = $10, referred_by = $11, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.CPF, c.CPFHMAC, c.RG, c.Phone, c.Address,
		c.City, c.State, c.ZipCode, c.ReferredBy).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("client")
	}
	return translate("failed to update client", err)
}

// DeleteClient removes a client; loans and charges cascade
func (r *Repository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return translate("failed to delete client", err)
	}
	return mustAffect(res, "client")
}
