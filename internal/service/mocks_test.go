package service_test

import (
	"context"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockPackageRepo
type MockPackageRepo struct {
	mock.Mock
}

func (m *MockPackageRepo) Create(ctx context.Context, pkg *domain.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}
func (m *MockPackageRepo) GetByID(ctx context.Context, id int32) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}
func (m *MockPackageRepo) GetByName(ctx context.Context, name string) (*domain.Package, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}
func (m *MockPackageRepo) List(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Package), args.Error(1)
}
func (m *MockPackageRepo) Update(ctx context.Context, pkg *domain.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}
func (m *MockPackageRepo) CountActiveReferences(ctx context.Context, id int32) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPackageRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBrandRepo
type MockBrandRepo struct {
	mock.Mock
}

func (m *MockBrandRepo) Create(ctx context.Context, brand *domain.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}
func (m *MockBrandRepo) GetByID(ctx context.Context, id int32) (*domain.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}
func (m *MockBrandRepo) List(ctx context.Context, filter repository.BrandListFilter) ([]domain.Brand, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Brand), args.Error(1)
}
func (m *MockBrandRepo) Update(ctx context.Context, brand *domain.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}
func (m *MockBrandRepo) SetPackage(ctx context.Context, id int32, packageID *int32, purchasedAt *time.Time, offersCount int32) error {
	args := m.Called(ctx, id, packageID, purchasedAt, offersCount)
	return args.Error(0)
}
func (m *MockBrandRepo) SetArchived(ctx context.Context, id int32, archived bool) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}

// MockOfferRepo
type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) CreateAndConsumeSlot(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) PublishAndConsumeSlot(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) Update(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) List(ctx context.Context, filter repository.OfferListFilter) ([]domain.Offer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) ListPublished(ctx context.Context, filter domain.OfferFilter, now time.Time) ([]domain.Offer, error) {
	args := m.Called(ctx, filter, now)
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) SetArchived(ctx context.Context, id int32, archived bool) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}
func (m *MockOfferRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOfferRepo) Stats(ctx context.Context, now time.Time) (*domain.OfferStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfferStats), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, filter repository.UserListFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListBrandManagers(ctx context.Context, brandID int32) ([]domain.User, error) {
	args := m.Called(ctx, brandID)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) SetResetToken(ctx context.Context, id int32, digest string, expires time.Time) error {
	args := m.Called(ctx, id, digest, expires)
	return args.Error(0)
}
func (m *MockUserRepo) ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) error {
	args := m.Called(ctx, digest, passwordHash, now)
	return args.Error(0)
}
func (m *MockUserRepo) ConsumeInitToken(ctx context.Context, digest, passwordHash string, now time.Time) error {
	args := m.Called(ctx, digest, passwordHash, now)
	return args.Error(0)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.CreatorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID int32) (*domain.CreatorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreatorProfile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.CreatorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInitEmail(ctx context.Context, to, rawToken string) error {
	args := m.Called(ctx, to, rawToken)
	return args.Error(0)
}
func (m *MockEmailService) SendResetEmail(ctx context.Context, to, rawToken string) error {
	args := m.Called(ctx, to, rawToken)
	return args.Error(0)
}

// MockFiles
type MockFiles struct {
	mock.Mock
}

func (m *MockFiles) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockLimiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
func (m *MockLimiter) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockTokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateAccessToken(user *domain.User, rememberMe bool) (string, time.Time, error) {
	args := m.Called(user, rememberMe)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func int32p(v int32) *int32 { return &v }

func strp(v string) *string { return &v }

func timep(t time.Time) *time.Time { return &t }
