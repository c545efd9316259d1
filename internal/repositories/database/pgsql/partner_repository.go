package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	"github.com/mitrapajak/tax-ledger-backend/internal/models"
	"github.com/mitrapajak/tax-ledger-backend/internal/utils/mapping"
)

type PgxPartnerRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartnerRepository creates a new repository for counterparty data.
func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{pool: pool}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	m := mapping.ToModelPartner(partner)

	query := `
		INSERT INTO partners (partner_id, name, npwp, type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PartnerID, m.Name, m.NPWP, m.Type,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: partner with ID %s already exists", apperrors.ErrDuplicate, m.PartnerID)
		}
		return fmt.Errorf("failed to save partner %s: %w", m.PartnerID, err)
	}
	return nil
}

func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `
		SELECT partner_id, name, npwp, type, created_at, created_by, last_updated_at, last_updated_by
		FROM partners
		WHERE partner_id = $1;
	`
	var m models.Partner
	err := r.pool.QueryRow(ctx, query, partnerID).Scan(
		&m.PartnerID, &m.Name, &m.NPWP, &m.Type,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}

	partner := mapping.ToDomainPartner(m)
	return &partner, nil
}

func (r *PgxPartnerRepository) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	query := `
		SELECT partner_id, name, npwp, type, created_at, created_by, last_updated_at, last_updated_by
		FROM partners
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		var m models.Partner
		if err := rows.Scan(&m.PartnerID, &m.Name, &m.NPWP, &m.Type,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, mapping.ToDomainPartner(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner rows: %w", err)
	}
	return partners, nil
}

func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	m := mapping.ToModelPartner(partner)

	query := `
		UPDATE partners
		SET name = $2, npwp = $3, type = $4, last_updated_at = $5, last_updated_by = $6
		WHERE partner_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, m.PartnerID, m.Name, m.NPWP, m.Type, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update partner %s: %w", m.PartnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPartnerRepository) DeletePartner(ctx context.Context, partnerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM partners WHERE partner_id = $1;`, partnerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: partner %s is referenced by transactions", apperrors.ErrConflict, partnerID)
		}
		return fmt.Errorf("failed to delete partner %s: %w", partnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
