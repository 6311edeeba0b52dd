package postgres

import (
	"context"
	"database/sql"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/repository"

	"github.com/lib/pq"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.CreatorProfile) error {
	query := `INSERT INTO creator_profiles (user_id, name, languages, categories, creating_as, image, about, portfolio,
	          instagram, pinterest, facebook, tiktok, youtube, published)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		p.UserID, p.Name, pq.Array(emptyIfNil(p.Languages)), pq.Array(emptyIfNil(p.Categories)), pq.Array(emptyIfNil(p.CreatingAs)),
		p.Image, p.About, p.Portfolio, p.Instagram, p.Pinterest, p.Facebook, p.TikTok, p.YouTube, p.Published,
	).Scan(&p.ID)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int32) (*domain.CreatorProfile, error) {
	query := `SELECT id, user_id, name, languages, categories, creating_as, image, about, portfolio,
	          instagram, pinterest, facebook, tiktok, youtube, published FROM creator_profiles WHERE user_id = $1`
	p := &domain.CreatorProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Name, pq.Array(&p.Languages), pq.Array(&p.Categories), pq.Array(&p.CreatingAs),
		&p.Image, &p.About, &p.Portfolio, &p.Instagram, &p.Pinterest, &p.Facebook, &p.TikTok, &p.YouTube, &p.Published,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.CreatorProfile) error {
	query := `UPDATE creator_profiles SET name=$1, languages=$2, categories=$3, creating_as=$4, image=$5, about=$6,
	          portfolio=$7, instagram=$8, pinterest=$9, facebook=$10, tiktok=$11, youtube=$12, published=$13 WHERE id=$14`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, pq.Array(emptyIfNil(p.Languages)), pq.Array(emptyIfNil(p.Categories)), pq.Array(emptyIfNil(p.CreatingAs)),
		p.Image, p.About, p.Portfolio, p.Instagram, p.Pinterest, p.Facebook, p.TikTok, p.YouTube, p.Published, p.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
