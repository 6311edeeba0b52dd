package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"

	"github.com/lib/pq"
)

const brandColumns = `id, name, ico, address, city, zip, country, categories, package_id, purchased_at,
	offers_count, offer_ids, main_contact, logo, website, facebook, instagram, tiktok, pinterest, youtube,
	is_archived, created_at, updated_at`

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) repository.BrandRepository {
	return &brandRepository{db: db}
}

func scanBrand(s rowScanner) (*domain.Brand, error) {
	b := &domain.Brand{}
	var pkg, contact sql.NullInt32
	var purchasedAt sql.NullTime
	err := s.Scan(
		&b.ID, &b.Name, &b.ICO, &b.Address, &b.City, &b.Zip, &b.Country, pq.Array(&b.Categories), &pkg, &purchasedAt,
		&b.OffersCount, pq.Array(&b.OfferIDs), &contact, &b.Logo, &b.Website, &b.Facebook, &b.Instagram, &b.TikTok, &b.Pinterest, &b.YouTube,
		&b.IsArchived, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	b.PackageID = int32Ptr(pkg)
	b.PurchasedAt = timePtr(purchasedAt)
	b.MainContact = int32Ptr(contact)
	return b, nil
}

func (r *brandRepository) Create(ctx context.Context, b *domain.Brand) error {
	query := `INSERT INTO brands (name, ico, address, city, zip, country, categories, package_id, purchased_at, offers_count,
	          main_contact, logo, website, facebook, instagram, tiktok, pinterest, youtube, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20) RETURNING id`
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.OfferIDs = emptyIfNil(b.OfferIDs)
	logger.DatabaseCall("INSERT", "brands", "name", b.Name, "country", b.Country)
	err := r.db.QueryRowContext(ctx, query,
		b.Name, b.ICO, b.Address, b.City, b.Zip, b.Country, pq.Array(emptyIfNil(b.Categories)), b.PackageID, b.PurchasedAt, b.OffersCount,
		b.MainContact, b.Logo, b.Website, b.Facebook, b.Instagram, b.TikTok, b.Pinterest, b.YouTube, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "brandID", b.ID)
	return err
}

func (r *brandRepository) GetByID(ctx context.Context, id int32) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`
	return scanBrand(r.db.QueryRowContext(ctx, query, id))
}

func (r *brandRepository) List(ctx context.Context, f repository.BrandListFilter) ([]domain.Brand, error) {
	conds := []string{"is_archived = $1"}
	args := []any{f.Archived}
	if f.Countries != nil {
		args = append(args, pq.Array(f.Countries))
		conds = append(conds, fmt.Sprintf("country = ANY($%d)", len(args)))
	}
	if f.IDs != nil {
		args = append(args, pq.Array(f.IDs))
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	query := `SELECT ` + brandColumns + ` FROM brands WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, *b)
	}
	return brands, rows.Err()
}

// Update writes the descriptive columns. package_id, purchased_at and
// offers_count go through SetPackage or slot consumption only.
func (r *brandRepository) Update(ctx context.Context, b *domain.Brand) error {
	query := `UPDATE brands SET name=$1, ico=$2, address=$3, city=$4, zip=$5, country=$6, categories=$7, main_contact=$8,
	          logo=$9, website=$10, facebook=$11, instagram=$12, tiktok=$13, pinterest=$14, youtube=$15, updated_at=$16
	          WHERE id=$17`
	b.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		b.Name, b.ICO, b.Address, b.City, b.Zip, b.Country, pq.Array(emptyIfNil(b.Categories)), b.MainContact,
		b.Logo, b.Website, b.Facebook, b.Instagram, b.TikTok, b.Pinterest, b.YouTube, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *brandRepository) SetPackage(ctx context.Context, id int32, packageID *int32, purchasedAt *time.Time, offersCount int32) error {
	logger.DatabaseCall("UPDATE", "brands SET package_id", "brandID", id, "offersCount", offersCount)
	res, err := r.db.ExecContext(ctx,
		`UPDATE brands SET package_id=$1, purchased_at=$2, offers_count=$3, updated_at=$4 WHERE id=$5`,
		packageID, purchasedAt, offersCount, time.Now(), id,
	)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "brandID", id)
		return err
	}
	return checkAffected(res)
}

func (r *brandRepository) SetArchived(ctx context.Context, id int32, archived bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE brands SET is_archived=$1, updated_at=$2 WHERE id=$3`, archived, time.Now(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
