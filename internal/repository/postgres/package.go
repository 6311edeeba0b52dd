package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
)

const packageColumns = `id, name, validity_months, offers_count, type, created_at, updated_at`

type packageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) repository.PackageRepository {
	return &packageRepository{db: db}
}

func scanPackage(s rowScanner) (*domain.Package, error) {
	p := &domain.Package{}
	if err := s.Scan(&p.ID, &p.Name, &p.ValidityMonths, &p.OffersCount, &p.Type, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *packageRepository) Create(ctx context.Context, p *domain.Package) error {
	query := `INSERT INTO packages (name, validity_months, offers_count, type, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, p.Name, p.ValidityMonths, p.OffersCount, p.Type, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *packageRepository) GetByID(ctx context.Context, id int32) (*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	return scanPackage(r.db.QueryRowContext(ctx, query, id))
}

func (r *packageRepository) GetByName(ctx context.Context, name string) (*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE name = $1`
	return scanPackage(r.db.QueryRowContext(ctx, query, name))
}

func (r *packageRepository) List(ctx context.Context) ([]domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pkgs := []domain.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, *p)
	}
	return pkgs, rows.Err()
}

func (r *packageRepository) Update(ctx context.Context, p *domain.Package) error {
	query := `UPDATE packages SET name=$1, validity_months=$2, offers_count=$3, type=$4, updated_at=$5 WHERE id=$6`
	p.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query, p.Name, p.ValidityMonths, p.OffersCount, p.Type, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

const activeReferencesQuery = `SELECT
	(SELECT COUNT(*) FROM users WHERE package_id = $1 AND NOT is_archived) +
	(SELECT COUNT(*) FROM brands WHERE package_id = $1 AND NOT is_archived)`

func (r *packageRepository) CountActiveReferences(ctx context.Context, id int32) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, activeReferencesQuery, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete locks the package row first, so a concurrent assignment waits on the
// foreign key until this transaction ends and never gets silently unassigned.
func (r *packageRepository) Delete(ctx context.Context, id int32) error {
	logger.EnterMethod("packageRepository.Delete", "packageID", id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked int32
	if err := tx.QueryRowContext(ctx, `SELECT id FROM packages WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		logger.ExitMethodWithError("packageRepository.Delete", err, "packageID", id)
		return notFound(err)
	}

	var refs int64
	if err := tx.QueryRowContext(ctx, activeReferencesQuery, id).Scan(&refs); err != nil {
		logger.ExitMethodWithError("packageRepository.Delete", err, "packageID", id)
		return fmt.Errorf("failed to count package references: %w", err)
	}
	if refs > 0 {
		logger.ExitMethod("packageRepository.Delete", "packageID", id, "activeReferences", refs)
		return repository.ErrPackageInUse
	}

	logger.DatabaseCall("UPDATE", "users SET package_id = NULL", "packageID", id)
	if _, err := tx.ExecContext(ctx, `UPDATE users SET package_id = NULL, purchased_at = NULL WHERE package_id = $1`, id); err != nil {
		logger.ExitMethodWithError("packageRepository.Delete", err, "packageID", id)
		return fmt.Errorf("failed to unassign package from users: %w", err)
	}

	logger.DatabaseCall("UPDATE", "brands SET package_id = NULL", "packageID", id)
	if _, err := tx.ExecContext(ctx, `UPDATE brands SET package_id = NULL, purchased_at = NULL, offers_count = 0 WHERE package_id = $1`, id); err != nil {
		logger.ExitMethodWithError("packageRepository.Delete", err, "packageID", id)
		return fmt.Errorf("failed to unassign package from brands: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		logger.ExitMethodWithError("packageRepository.Delete", err, "packageID", id)
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("packageRepository.Delete", "packageID", id)
	return nil
}
