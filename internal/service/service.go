package service

import (
	"context"
	"time"

	"ugeco-backoffice/internal/domain"
)

type PackageService interface {
	Create(ctx context.Context, caller domain.Principal, in PackageInput) (*domain.Package, error)
	List(ctx context.Context, caller domain.Principal) ([]domain.Package, error)
	Get(ctx context.Context, caller domain.Principal, id int32) (*domain.Package, error)
	Update(ctx context.Context, caller domain.Principal, id int32, in PackagePatch) (*domain.Package, error)
	Remove(ctx context.Context, caller domain.Principal, id int32) error
}

type BrandService interface {
	Create(ctx context.Context, caller domain.Principal, in BrandInput) (*domain.Brand, error)
	FindAllForUser(ctx context.Context, caller domain.Principal) ([]domain.Brand, error)
	FindArchived(ctx context.Context, caller domain.Principal) ([]domain.Brand, error)
	FindOneForUser(ctx context.Context, caller domain.Principal, id int32) (*domain.Brand, error)
	Update(ctx context.Context, caller domain.Principal, id int32, in BrandPatch) (*domain.Brand, error)
	UpdateForUser(ctx context.Context, caller domain.Principal, id int32, in BrandPatch) (*domain.Brand, error)
	AssignPackage(ctx context.Context, caller domain.Principal, id, packageID int32) (*domain.Brand, error)
	Archive(ctx context.Context, caller domain.Principal, id int32) error
	Restore(ctx context.Context, caller domain.Principal, id int32) error
}

type OfferService interface {
	Create(ctx context.Context, caller domain.Principal, in OfferInput) (*domain.Offer, error)
	Update(ctx context.Context, caller domain.Principal, id int32, in OfferPatch) (*domain.Offer, error)
	FindOne(ctx context.Context, caller domain.Principal, id int32) (*domain.Offer, error)
	FindAllForUser(ctx context.Context, caller domain.Principal) ([]domain.Offer, error)
	FindArchived(ctx context.Context, caller domain.Principal) ([]domain.Offer, error)
	FindAllForCreator(ctx context.Context, caller domain.Principal, q OfferQuery) ([]domain.Offer, error)
	Archive(ctx context.Context, caller domain.Principal, id int32) error
	Restore(ctx context.Context, caller domain.Principal, id int32) error
	Remove(ctx context.Context, caller domain.Principal, id int32) error
	Stats(ctx context.Context, caller domain.Principal) (*domain.OfferStats, error)
}

type UserService interface {
	Create(ctx context.Context, caller domain.Principal, in UserInput) (*domain.User, error)
	Update(ctx context.Context, caller domain.Principal, id int32, in UserPatch) (*domain.User, error)
	UpdateSelf(ctx context.Context, caller domain.Principal, in SelfPatch) (*domain.User, error)
	FindAll(ctx context.Context, caller domain.Principal) ([]domain.User, error)
	FindArchived(ctx context.Context, caller domain.Principal) ([]domain.User, error)
	FindOne(ctx context.Context, caller domain.Principal, id int32) (*domain.User, error)
	CreateBrandManager(ctx context.Context, caller domain.Principal, brandID int32, in BrandManagerInput) (*domain.User, error)
	RemoveBrandAccess(ctx context.Context, caller domain.Principal, brandID, userID int32) error
	GetBrandManagersByBrand(ctx context.Context, caller domain.Principal, brandID int32) ([]domain.User, error)
	Archive(ctx context.Context, caller domain.Principal, id int32) error
	Restore(ctx context.Context, caller domain.Principal, id int32) error
}

type AuthService interface {
	SignIn(ctx context.Context, email, password string, rememberMe bool) (*SignInResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	InitializePassword(ctx context.Context, token, password string) error
	Me(ctx context.Context, caller domain.Principal) (*domain.User, error)
}

type ProfileService interface {
	Create(ctx context.Context, caller domain.Principal, in ProfileInput) (*domain.CreatorProfile, error)
	Update(ctx context.Context, caller domain.Principal, in ProfilePatch) (*domain.CreatorProfile, error)
	FindByUser(ctx context.Context, caller domain.Principal, userID int32) (*domain.CreatorProfile, error)
}

// EmailService delivers one-time password links.
type EmailService interface {
	SendInitEmail(ctx context.Context, to, rawToken string) error
	SendResetEmail(ctx context.Context, to, rawToken string) error
}

// FileDeleter removes replaced uploads.
type FileDeleter interface {
	Delete(ctx context.Context, path string) error
}

// AttemptLimiter throttles credential endpoints per key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenIssuer signs session tokens for a user.
type TokenIssuer interface {
	GenerateAccessToken(user *domain.User, rememberMe bool) (string, time.Time, error)
}

type SignInResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}
