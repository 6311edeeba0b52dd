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

const offerColumns = `o.id, o.brand_id, o.name, o.status, o.is_archived, o.paid_cooperation, o.active_from, o.active_to,
	o.categories, o.languages, o.targets, o.image, o.description, o.contact, o.website, o.facebook, o.instagram,
	o.tiktok, o.pinterest, o.youtube, o.created_at, o.updated_at`

// consumeSlotQuery is the conditional decrement guarding the brand balance.
const consumeSlotQuery = `UPDATE brands SET offers_count = offers_count - 1, offer_ids = array_append(offer_ids, $2), updated_at = $3
	WHERE id = $1 AND offers_count > 0 AND NOT is_archived`

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

func scanOffer(s rowScanner) (*domain.Offer, error) {
	o := &domain.Offer{}
	var activeFrom, activeTo sql.NullTime
	err := s.Scan(
		&o.ID, &o.BrandID, &o.Name, &o.Status, &o.IsArchived, &o.PaidCooperation, &activeFrom, &activeTo,
		pq.Array(&o.Categories), pq.Array(&o.Languages), pq.Array(&o.Targets), &o.Image, &o.Description, &o.Contact,
		&o.Website, &o.Facebook, &o.Instagram, &o.TikTok, &o.Pinterest, &o.YouTube, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	o.ActiveFrom = timePtr(activeFrom)
	o.ActiveTo = timePtr(activeTo)
	return o, nil
}

func scanOffers(rows *sql.Rows) ([]domain.Offer, error) {
	defer rows.Close()
	offers := []domain.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertOffer(ctx context.Context, db execer, o *domain.Offer) error {
	query := `INSERT INTO offers (brand_id, name, status, is_archived, paid_cooperation, active_from, active_to, categories,
	          languages, targets, image, description, contact, website, facebook, instagram, tiktok, pinterest, youtube,
	          created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21) RETURNING id`
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	return db.QueryRowContext(ctx, query,
		o.BrandID, o.Name, o.Status, o.IsArchived, o.PaidCooperation, o.ActiveFrom, o.ActiveTo, pq.Array(emptyIfNil(o.Categories)),
		pq.Array(emptyIfNil(o.Languages)), pq.Array(emptyIfNil(o.Targets)), o.Image, o.Description, o.Contact, o.Website,
		o.Facebook, o.Instagram, o.TikTok, o.Pinterest, o.YouTube, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
}

const offerSetClause = `name=$1, paid_cooperation=$2, active_from=$3, active_to=$4, categories=$5, languages=$6,
	targets=$7, image=$8, description=$9, contact=$10, website=$11, facebook=$12, instagram=$13, tiktok=$14,
	pinterest=$15, youtube=$16, updated_at=$17`

func offerSetArgs(o *domain.Offer) []any {
	return []any{
		o.Name, o.PaidCooperation, o.ActiveFrom, o.ActiveTo, pq.Array(emptyIfNil(o.Categories)),
		pq.Array(emptyIfNil(o.Languages)), pq.Array(emptyIfNil(o.Targets)), o.Image, o.Description, o.Contact, o.Website,
		o.Facebook, o.Instagram, o.TikTok, o.Pinterest, o.YouTube, o.UpdatedAt, o.ID,
	}
}

// updateOffer writes the editable columns. Status is left to publishOffer.
func updateOffer(ctx context.Context, db execer, o *domain.Offer) error {
	o.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `UPDATE offers SET `+offerSetClause+` WHERE id=$18`, offerSetArgs(o)...)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// publishOffer flips a live concept to active. Only one caller can win the
// transition; the others see ErrNotConcept, or ErrNotFound for a missing offer.
func publishOffer(ctx context.Context, tx *sql.Tx, o *domain.Offer) error {
	o.UpdatedAt = time.Now()
	query := `UPDATE offers SET ` + offerSetClause + `, status='active'
	          WHERE id=$18 AND status='concept' AND NOT is_archived`
	logger.DatabaseCall("UPDATE", "offers SET status = 'active'", "offerID", o.ID)
	res, err := tx.ExecContext(ctx, query, offerSetArgs(o)...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", rows, nil, "offerID", o.ID)
	if rows > 0 {
		o.Status = domain.OfferStatusActive
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM offers WHERE id = $1 AND NOT is_archived)`, o.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrNotConcept
}

func consumeSlot(ctx context.Context, tx *sql.Tx, brandID, offerID int32) error {
	logger.DatabaseCall("UPDATE", "brands SET offers_count = offers_count - 1", "brandID", brandID, "offerID", offerID)
	res, err := tx.ExecContext(ctx, consumeSlotQuery, brandID, offerID, time.Now())
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "brandID", brandID)
		return fmt.Errorf("failed to consume offer slot: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", rows, nil, "brandID", brandID)
	if rows == 0 {
		return repository.ErrNoOffersRemaining
	}
	return nil
}

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	return insertOffer(ctx, r.db, o)
}

func (r *offerRepository) CreateAndConsumeSlot(ctx context.Context, o *domain.Offer) error {
	logger.EnterMethod("offerRepository.CreateAndConsumeSlot", "brandID", o.BrandID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOffer(ctx, tx, o); err != nil {
		logger.ExitMethodWithError("offerRepository.CreateAndConsumeSlot", err, "brandID", o.BrandID)
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	if err := consumeSlot(ctx, tx, o.BrandID, o.ID); err != nil {
		o.ID = 0
		return err
	}
	if err := tx.Commit(); err != nil {
		o.ID = 0
		return err
	}

	logger.ExitMethod("offerRepository.CreateAndConsumeSlot", "brandID", o.BrandID, "offerID", o.ID)
	return nil
}

func (r *offerRepository) PublishAndConsumeSlot(ctx context.Context, o *domain.Offer) error {
	logger.EnterMethod("offerRepository.PublishAndConsumeSlot", "offerID", o.ID, "brandID", o.BrandID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := publishOffer(ctx, tx, o); err != nil {
		logger.ExitMethodWithError("offerRepository.PublishAndConsumeSlot", err, "offerID", o.ID)
		return err
	}
	if err := consumeSlot(ctx, tx, o.BrandID, o.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.ExitMethod("offerRepository.PublishAndConsumeSlot", "offerID", o.ID)
	return nil
}

func (r *offerRepository) Update(ctx context.Context, o *domain.Offer) error {
	return updateOffer(ctx, r.db, o)
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers o WHERE o.id = $1`
	return scanOffer(r.db.QueryRowContext(ctx, query, id))
}

func (r *offerRepository) List(ctx context.Context, f repository.OfferListFilter) ([]domain.Offer, error) {
	conds := []string{"o.is_archived = $1"}
	args := []any{f.Archived}
	if f.BrandIDs != nil {
		args = append(args, pq.Array(f.BrandIDs))
		conds = append(conds, fmt.Sprintf("o.brand_id = ANY($%d)", len(args)))
	}
	if f.Countries != nil {
		args = append(args, pq.Array(f.Countries))
		conds = append(conds, fmt.Sprintf("b.country = ANY($%d)", len(args)))
	}
	query := `SELECT ` + offerColumns + ` FROM offers o JOIN brands b ON b.id = o.brand_id
	          WHERE NOT b.is_archived AND ` + strings.Join(conds, " AND ") + ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanOffers(rows)
}

func (r *offerRepository) ListPublished(ctx context.Context, f domain.OfferFilter, now time.Time) ([]domain.Offer, error) {
	logger.EnterMethod("offerRepository.ListPublished", "countries", f.Countries)

	args := []any{pq.Array(emptyIfNil(f.Countries)), now}
	conds := []string{
		"o.status = 'active'",
		"NOT o.is_archived",
		"NOT b.is_archived",
		"b.country = ANY($1)",
		"(o.active_to IS NULL OR o.active_to >= $2)",
	}
	overlap := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		args = append(args, pq.Array(values))
		conds = append(conds, fmt.Sprintf("%s && $%d", column, len(args)))
	}
	overlap("o.categories", f.Categories)
	overlap("o.targets", f.Targets)
	overlap("o.languages", f.Languages)
	if f.PaidCooperation != nil {
		args = append(args, *f.PaidCooperation)
		conds = append(conds, fmt.Sprintf("o.paid_cooperation = $%d", len(args)))
	}

	query := `SELECT ` + offerColumns + ` FROM offers o JOIN brands b ON b.id = o.brand_id
	          WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY o.active_from DESC NULLS LAST`
	logger.DatabaseCall("SELECT", "offers JOIN brands", "conditions", len(conds))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError("offerRepository.ListPublished", err)
		return nil, err
	}
	offers, err := scanOffers(rows)
	if err != nil {
		logger.ExitMethodWithError("offerRepository.ListPublished", err)
		return nil, err
	}
	logger.ExitMethod("offerRepository.ListPublished", "count", len(offers))
	return offers, nil
}

func (r *offerRepository) SetArchived(ctx context.Context, id int32, archived bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE offers SET is_archived=$1, updated_at=$2 WHERE id=$3`, archived, time.Now(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *offerRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1 AND status = 'concept' AND NOT is_archived`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *offerRepository) Stats(ctx context.Context, now time.Time) (*domain.OfferStats, error) {
	query := `SELECT
	            (SELECT COUNT(*) FROM offers WHERE NOT is_archived),
	            (SELECT COUNT(*) FROM offers WHERE NOT is_archived AND status = 'active'
	               AND (active_from IS NULL OR active_from <= $1) AND (active_to IS NULL OR active_to >= $1)),
	            (SELECT COUNT(*) FROM users WHERE role = 'creator' AND NOT is_archived)`
	stats := &domain.OfferStats{}
	if err := r.db.QueryRowContext(ctx, query, now).Scan(&stats.TotalOffers, &stats.ActiveOffers, &stats.CreatorsCount); err != nil {
		return nil, err
	}
	return stats, nil
}
