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

const userColumns = `id, name, sur_name, email, password_hash, role, countries, brands, package_id, purchased_at, ico,
	reset_token_digest, reset_token_expires, init_token_digest, init_token_expires, is_archived, archived_at,
	created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(s rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var pkg sql.NullInt32
	var purchasedAt, resetExpires, initExpires, archivedAt sql.NullTime
	var resetDigest, initDigest sql.NullString
	err := s.Scan(
		&u.ID, &u.Name, &u.SurName, &u.Email, &u.PasswordHash, &u.Role, pq.Array(&u.Countries), pq.Array(&u.Brands), &pkg, &purchasedAt, &u.ICO,
		&resetDigest, &resetExpires, &initDigest, &initExpires, &u.IsArchived, &archivedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	u.PackageID = int32Ptr(pkg)
	u.PurchasedAt = timePtr(purchasedAt)
	u.ResetTokenDigest = nullString(resetDigest)
	u.ResetTokenExpires = timePtr(resetExpires)
	u.InitTokenDigest = nullString(initDigest)
	u.InitTokenExpires = timePtr(initExpires)
	u.ArchivedAt = timePtr(archivedAt)
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	defer rows.Close()
	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// digestArg stores an empty digest as NULL.
func digestArg(digest string) any {
	if digest == "" {
		return nil
	}
	return digest
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, sur_name, email, password_hash, role, countries, brands, package_id, purchased_at, ico,
	          init_token_digest, init_token_expires, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Email = domain.NormalizeEmail(u.Email)
	logger.DatabaseCall("INSERT", "users", "email", u.Email, "role", u.Role)
	err := r.db.QueryRowContext(ctx, query,
		u.Name, u.SurName, u.Email, u.PasswordHash, u.Role, pq.Array(emptyIfNil(u.Countries)), pq.Array(emptyIfNil(u.Brands)),
		u.PackageID, u.PurchasedAt, u.ICO, digestArg(u.InitTokenDigest), u.InitTokenExpires, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, sur_name=$2, email=$3, password_hash=$4, role=$5, countries=$6, brands=$7,
	          package_id=$8, purchased_at=$9, ico=$10, reset_token_digest=$11, reset_token_expires=$12,
	          init_token_digest=$13, init_token_expires=$14, is_archived=$15, archived_at=$16, updated_at=$17
	          WHERE id=$18`
	u.UpdatedAt = time.Now()
	u.Email = domain.NormalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx, query,
		u.Name, u.SurName, u.Email, u.PasswordHash, u.Role, pq.Array(emptyIfNil(u.Countries)), pq.Array(emptyIfNil(u.Brands)),
		u.PackageID, u.PurchasedAt, u.ICO, digestArg(u.ResetTokenDigest), u.ResetTokenExpires,
		digestArg(u.InitTokenDigest), u.InitTokenExpires, u.IsArchived, u.ArchivedAt, u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *userRepository) List(ctx context.Context, f repository.UserListFilter) ([]domain.User, error) {
	conds := []string{"is_archived = $1"}
	args := []any{f.Archived}
	if f.Countries != nil {
		args = append(args, pq.Array(f.Countries))
		conds = append(conds, fmt.Sprintf("countries && $%d", len(args)), "role <> 'admin'")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY sur_name, name`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func (r *userRepository) ListBrandManagers(ctx context.Context, brandID int32) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE role = 'brand_manager' AND NOT is_archived AND $1 = ANY(brands) ORDER BY sur_name, name`
	rows, err := r.db.QueryContext(ctx, query, brandID)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func (r *userRepository) SetResetToken(ctx context.Context, id int32, digest string, expires time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET reset_token_digest=$1, reset_token_expires=$2, updated_at=$3 WHERE id=$4`,
		digest, expires, time.Now(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password_hash=$1, reset_token_digest=NULL, reset_token_expires=NULL, updated_at=$3
	          WHERE reset_token_digest=$2 AND reset_token_expires > $3`
	res, err := r.db.ExecContext(ctx, query, passwordHash, digest, now)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *userRepository) ConsumeInitToken(ctx context.Context, digest, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password_hash=$1, init_token_digest=NULL, init_token_expires=NULL, updated_at=$3
	          WHERE init_token_digest=$2 AND init_token_expires > $3`
	res, err := r.db.ExecContext(ctx, query, passwordHash, digest, now)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
