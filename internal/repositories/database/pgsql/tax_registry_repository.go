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

// PgxTaxRegistryRepository stores VAT and withholding component masters.
type PgxTaxRegistryRepository struct {
	pool *pgxpool.Pool
}

// newPgxTaxRegistryRepository creates a new repository for tax component data.
func newPgxTaxRegistryRepository(pool *pgxpool.Pool) portsrepo.TaxRegistryFacade {
	return &PgxTaxRegistryRepository{pool: pool}
}

var _ portsrepo.TaxRegistryFacade = (*PgxTaxRegistryRepository)(nil)

func (r *PgxTaxRegistryRepository) SaveVatComponent(ctx context.Context, vat domain.VatComponent) error {
	m := mapping.ToModelVatComponent(vat)

	query := `
		INSERT INTO vat_components (vat_id, label, rate, output_account_id, input_account_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.VatID, m.Label, m.Rate, m.OutputAccountID, m.InputAccountID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: VAT component %s already exists", apperrors.ErrDuplicate, m.VatID)
		}
		return fmt.Errorf("failed to save VAT component %s: %w", m.VatID, err)
	}
	return nil
}

func (r *PgxTaxRegistryRepository) GetVatComponent(ctx context.Context, vatID string) (*domain.VatComponent, error) {
	query := `
		SELECT vat_id, label, rate, output_account_id, input_account_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM vat_components
		WHERE vat_id = $1;
	`
	var m models.VatComponent
	err := r.pool.QueryRow(ctx, query, vatID).Scan(
		&m.VatID, &m.Label, &m.Rate, &m.OutputAccountID, &m.InputAccountID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find VAT component %s: %w", vatID, err)
	}

	vat := mapping.ToDomainVatComponent(m)
	return &vat, nil
}

func (r *PgxTaxRegistryRepository) ListVatComponents(ctx context.Context) ([]domain.VatComponent, error) {
	query := `
		SELECT vat_id, label, rate, output_account_id, input_account_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM vat_components
		ORDER BY label;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query VAT components: %w", err)
	}
	defer rows.Close()

	var vats []domain.VatComponent
	for rows.Next() {
		var m models.VatComponent
		if err := rows.Scan(&m.VatID, &m.Label, &m.Rate, &m.OutputAccountID, &m.InputAccountID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan VAT component row: %w", err)
		}
		vats = append(vats, mapping.ToDomainVatComponent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating VAT component rows: %w", err)
	}
	return vats, nil
}

func (r *PgxTaxRegistryRepository) UpdateVatComponent(ctx context.Context, vat domain.VatComponent) error {
	m := mapping.ToModelVatComponent(vat)

	query := `
		UPDATE vat_components
		SET label = $2, rate = $3, output_account_id = $4, input_account_id = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE vat_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, m.VatID, m.Label, m.Rate, m.OutputAccountID, m.InputAccountID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update VAT component %s: %w", m.VatID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaxRegistryRepository) DeleteVatComponent(ctx context.Context, vatID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vat_components WHERE vat_id = $1;`, vatID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: VAT component %s is referenced by transactions", apperrors.ErrConflict, vatID)
		}
		return fmt.Errorf("failed to delete VAT component %s: %w", vatID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaxRegistryRepository) SaveWithholdingComponent(ctx context.Context, wht domain.WithholdingComponent) error {
	m := mapping.ToModelWithholdingComponent(wht)

	query := `
		INSERT INTO withholding_components (withholding_id, label, kind, rate, sale_account_id, purchase_account_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.WithholdingID, m.Label, m.Kind, m.Rate, m.SaleAccountID, m.PurchaseAccountID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: withholding component %s already exists", apperrors.ErrDuplicate, m.WithholdingID)
		}
		return fmt.Errorf("failed to save withholding component %s: %w", m.WithholdingID, err)
	}
	return nil
}

func (r *PgxTaxRegistryRepository) GetWithholdingComponent(ctx context.Context, withholdingID string) (*domain.WithholdingComponent, error) {
	query := `
		SELECT withholding_id, label, kind, rate, sale_account_id, purchase_account_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM withholding_components
		WHERE withholding_id = $1;
	`
	var m models.WithholdingComponent
	err := r.pool.QueryRow(ctx, query, withholdingID).Scan(
		&m.WithholdingID, &m.Label, &m.Kind, &m.Rate, &m.SaleAccountID, &m.PurchaseAccountID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find withholding component %s: %w", withholdingID, err)
	}

	wht := mapping.ToDomainWithholdingComponent(m)
	return &wht, nil
}

func (r *PgxTaxRegistryRepository) ListWithholdingComponents(ctx context.Context) ([]domain.WithholdingComponent, error) {
	query := `
		SELECT withholding_id, label, kind, rate, sale_account_id, purchase_account_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM withholding_components
		ORDER BY label;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query withholding components: %w", err)
	}
	defer rows.Close()

	var whts []domain.WithholdingComponent
	for rows.Next() {
		var m models.WithholdingComponent
		if err := rows.Scan(&m.WithholdingID, &m.Label, &m.Kind, &m.Rate, &m.SaleAccountID, &m.PurchaseAccountID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan withholding component row: %w", err)
		}
		whts = append(whts, mapping.ToDomainWithholdingComponent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withholding component rows: %w", err)
	}
	return whts, nil
}

func (r *PgxTaxRegistryRepository) UpdateWithholdingComponent(ctx context.Context, wht domain.WithholdingComponent) error {
	m := mapping.ToModelWithholdingComponent(wht)

	query := `
		UPDATE withholding_components
		SET label = $2, kind = $3, rate = $4, sale_account_id = $5, purchase_account_id = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE withholding_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, m.WithholdingID, m.Label, m.Kind, m.Rate, m.SaleAccountID, m.PurchaseAccountID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update withholding component %s: %w", m.WithholdingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaxRegistryRepository) DeleteWithholdingComponent(ctx context.Context, withholdingID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM withholding_components WHERE withholding_id = $1;`, withholdingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: withholding component %s is referenced by transactions", apperrors.ErrConflict, withholdingID)
		}
		return fmt.Errorf("failed to delete withholding component %s: %w", withholdingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
