package repository

import (
	"context"
	"errors"
	"time"

	"ugeco-backoffice/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrNoOffersRemaining is returned when the conditional slot decrement matched no brand row.
	ErrNoOffersRemaining = errors.New("brand has no remaining offers")
	// ErrNotConcept is returned when a publish finds the offer no longer in concept.
	ErrNotConcept = errors.New("offer is not a concept")
	// ErrPackageInUse is returned when a package still has non-archived holders.
	ErrPackageInUse = errors.New("package is in use")
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	GetByID(ctx context.Context, id int32) (*domain.Package, error)
	GetByName(ctx context.Context, name string) (*domain.Package, error)
	List(ctx context.Context) ([]domain.Package, error)
	Update(ctx context.Context, pkg *domain.Package) error
	// CountActiveReferences counts non-archived users and brands holding the package.
	CountActiveReferences(ctx context.Context, id int32) (int64, error)
	// Delete un-assigns the package from every remaining archived holder and
	// removes it. ErrPackageInUse is returned while a non-archived holder exists.
	Delete(ctx context.Context, id int32) error
}

// BrandListFilter selects brands. A nil slice means "no restriction";
// an empty one matches nothing.
type BrandListFilter struct {
	Archived  bool
	Countries []string
	IDs       []int32
}

type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	// GetByID returns the brand regardless of its archive flag.
	GetByID(ctx context.Context, id int32) (*domain.Brand, error)
	List(ctx context.Context, filter BrandListFilter) ([]domain.Brand, error)
	// Update writes the descriptive columns. The entitlement columns are left alone.
	Update(ctx context.Context, brand *domain.Brand) error
	// SetPackage replaces the package, purchase date and offer balance together.
	SetPackage(ctx context.Context, id int32, packageID *int32, purchasedAt *time.Time, offersCount int32) error
	SetArchived(ctx context.Context, id int32, archived bool) error
}

// OfferListFilter selects offers for back-office listings.
type OfferListFilter struct {
	Archived  bool
	BrandIDs  []int32
	Countries []string
}

type OfferRepository interface {
	// Create stores an offer without touching the brand balance.
	Create(ctx context.Context, offer *domain.Offer) error
	// CreateAndConsumeSlot inserts the offer and decrements the brand balance
	// in one transaction. ErrNoOffersRemaining leaves both untouched.
	CreateAndConsumeSlot(ctx context.Context, offer *domain.Offer) error
	// PublishAndConsumeSlot moves a concept to active and decrements the brand
	// balance in one transaction. ErrNotConcept means another request already
	// published it.
	PublishAndConsumeSlot(ctx context.Context, offer *domain.Offer) error
	// Update writes the editable columns and leaves status alone.
	Update(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id int32) (*domain.Offer, error)
	List(ctx context.Context, filter OfferListFilter) ([]domain.Offer, error)
	// ListPublished returns live offers of non-archived brands.
	ListPublished(ctx context.Context, filter domain.OfferFilter, now time.Time) ([]domain.Offer, error)
	SetArchived(ctx context.Context, id int32, archived bool) error
	// Delete removes a non-archived concept offer.
	Delete(ctx context.Context, id int32) error
	Stats(ctx context.Context, now time.Time) (*domain.OfferStats, error)
}

// UserListFilter selects users. Countries matches any overlap.
type UserListFilter struct {
	Archived  bool
	Countries []string
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, filter UserListFilter) ([]domain.User, error)
	ListBrandManagers(ctx context.Context, brandID int32) ([]domain.User, error)
	SetResetToken(ctx context.Context, id int32, digest string, expires time.Time) error
	// ConsumeResetToken sets the password of the user holding a live digest
	// and clears the token. ErrNotFound when no live token matches.
	ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) error
	ConsumeInitToken(ctx context.Context, digest, passwordHash string, now time.Time) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.CreatorProfile) error
	GetByUserID(ctx context.Context, userID int32) (*domain.CreatorProfile, error)
	Update(ctx context.Context, profile *domain.CreatorProfile) error
}
