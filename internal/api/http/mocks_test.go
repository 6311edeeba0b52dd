package http

import (
	"context"
	"io"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/security"
	"ugeco-backoffice/internal/service"

	"github.com/stretchr/testify/mock"
)

// fakeTokens maps raw bearer tokens to claims.
type fakeTokens map[string]*security.UserClaims

func (f fakeTokens) ValidateToken(token string) (*security.UserClaims, error) {
	if token == "expired" {
		return nil, security.ErrExpiredToken
	}
	claims, ok := f[token]
	if !ok {
		return nil, security.ErrInvalidToken
	}
	return claims, nil
}

type fakeSaver struct {
	folder string
	name   string
	data   []byte
}

func (f *fakeSaver) Save(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.folder, f.name, f.data = folder, name, data
	return "/uploads/" + folder + "/" + name, nil
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string, rememberMe bool) (*service.SignInResult, error) {
	args := m.Called(ctx, email, password, rememberMe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignInResult), args.Error(1)
}
func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, token, password string) error {
	args := m.Called(ctx, token, password)
	return args.Error(0)
}
func (m *MockAuthService) InitializePassword(ctx context.Context, token, password string) error {
	args := m.Called(ctx, token, password)
	return args.Error(0)
}
func (m *MockAuthService) Me(ctx context.Context, caller domain.Principal) (*domain.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockOfferService
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Create(ctx context.Context, caller domain.Principal, in service.OfferInput) (*domain.Offer, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferService) Update(ctx context.Context, caller domain.Principal, id int32, in service.OfferPatch) (*domain.Offer, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferService) FindOne(ctx context.Context, caller domain.Principal, id int32) (*domain.Offer, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferService) FindAllForUser(ctx context.Context, caller domain.Principal) ([]domain.Offer, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferService) FindArchived(ctx context.Context, caller domain.Principal) ([]domain.Offer, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferService) FindAllForCreator(ctx context.Context, caller domain.Principal, q service.OfferQuery) ([]domain.Offer, error) {
	args := m.Called(ctx, caller, q)
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferService) Archive(ctx context.Context, caller domain.Principal, id int32) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
func (m *MockOfferService) Restore(ctx context.Context, caller domain.Principal, id int32) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
func (m *MockOfferService) Remove(ctx context.Context, caller domain.Principal, id int32) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
func (m *MockOfferService) Stats(ctx context.Context, caller domain.Principal) (*domain.OfferStats, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfferStats), args.Error(1)
}

// MockBrandService
type MockBrandService struct {
	mock.Mock
}

func (m *MockBrandService) Create(ctx context.Context, caller domain.Principal, in service.BrandInput) (*domain.Brand, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}
func (m *MockBrandService) FindAllForUser(ctx context.Context, caller domain.Principal) ([]domain.Brand, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.Brand), args.Error(1)
}
func (m *MockBrandService) FindArchived(ctx context.Context, caller domain.Principal) ([]domain.Brand, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.Brand), args.Error(1)
}
func (m *MockBrandService) FindOneForUser(ctx context.Context, caller domain.Principal, id int32) (*domain.Brand, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}
func (m *MockBrandService) Update(ctx context.Context, caller domain.Principal, id int32, in service.BrandPatch) (*domain.Brand, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}
func (m *MockBrandService) UpdateForUser(ctx context.Context, caller domain.Principal, id int32, in service.BrandPatch) (*domain.Brand, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}
func (m *MockBrandService) AssignPackage(ctx context.Context, caller domain.Principal, id, packageID int32) (*domain.Brand, error) {
	args := m.Called(ctx, caller, id, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}
func (m *MockBrandService) Archive(ctx context.Context, caller domain.Principal, id int32) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
func (m *MockBrandService) Restore(ctx context.Context, caller domain.Principal, id int32) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
