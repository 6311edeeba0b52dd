package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/repository"
	"ugeco-backoffice/internal/security"
	"ugeco-backoffice/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenIssuer)
		limiter := new(MockLimiter)
		svc := service.NewAuthService(userRepo, tokens, nil, limiter, 10*time.Minute)

		user := &domain.User{ID: 1, Email: "a@ugeco.sk", PasswordHash: hash, Role: domain.RoleAdmin}
		exp := time.Now().Add(time.Hour)
		limiter.On("Allow", ctx, "a@ugeco.sk").Return(true, nil).Once()
		limiter.On("Reset", ctx, "a@ugeco.sk").Return(nil).Once()
		userRepo.On("GetByEmail", ctx, "a@ugeco.sk").Return(user, nil)
		tokens.On("GenerateAccessToken", user, true).Return("jwt", exp, nil).Once()

		res, err := svc.SignIn(ctx, "A@ugeco.sk", "secret1", true)
		require.NoError(t, err)
		assert.Equal(t, "jwt", res.AccessToken)
		assert.Equal(t, exp, res.ExpiresAt)
		assert.Equal(t, user, res.User)
		limiter.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("UniformFailure", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, new(MockTokenIssuer), nil, nil, 10*time.Minute)

		userRepo.On("GetByEmail", ctx, "missing@ugeco.sk").Return(nil, repository.ErrNotFound)
		userRepo.On("GetByEmail", ctx, "archived@ugeco.sk").Return(&domain.User{ID: 2, PasswordHash: hash, IsArchived: true}, nil)
		userRepo.On("GetByEmail", ctx, "nopass@ugeco.sk").Return(&domain.User{ID: 3}, nil)
		userRepo.On("GetByEmail", ctx, "wrong@ugeco.sk").Return(&domain.User{ID: 4, PasswordHash: hash}, nil)

		for _, email := range []string{"missing@ugeco.sk", "archived@ugeco.sk", "nopass@ugeco.sk", "wrong@ugeco.sk"} {
			_, err := svc.SignIn(ctx, email, "not-it", false)
			assertDomainError(t, err, domain.KindUnauthorized, domain.CodeInvalidCredentials)
			assert.Equal(t, "Invalid email or password", err.(*domain.Error).Message)
		}
	})

	t.Run("RateLimited", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		limiter := new(MockLimiter)
		svc := service.NewAuthService(userRepo, new(MockTokenIssuer), nil, limiter, 10*time.Minute)
		limiter.On("Allow", ctx, "a@ugeco.sk").Return(false, nil)

		_, err := svc.SignIn(ctx, "a@ugeco.sk", "secret1", false)
		assertDomainError(t, err, domain.KindTooMany, domain.CodeTooManyAttempts)
		userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("LimiterOutageDoesNotBlock", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenIssuer)
		limiter := new(MockLimiter)
		svc := service.NewAuthService(userRepo, tokens, nil, limiter, 10*time.Minute)
		user := &domain.User{ID: 1, PasswordHash: hash}
		limiter.On("Allow", ctx, "a@ugeco.sk").Return(true, errors.New("redis down"))
		limiter.On("Reset", ctx, "a@ugeco.sk").Return(errors.New("redis down"))
		userRepo.On("GetByEmail", ctx, "a@ugeco.sk").Return(user, nil)
		tokens.On("GenerateAccessToken", user, false).Return("jwt", time.Now(), nil)

		_, err := svc.SignIn(ctx, "a@ugeco.sk", "secret1", false)
		require.NoError(t, err)
	})
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresDigestAndMailsRawToken", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		email := new(MockEmailService)
		svc := service.NewAuthService(userRepo, nil, email, nil, 10*time.Minute)

		userRepo.On("GetByEmail", ctx, "a@ugeco.sk").Return(&domain.User{ID: 1, Email: "a@ugeco.sk"}, nil)
		var digest string
		var expires time.Time
		userRepo.On("SetResetToken", ctx, int32(1), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
			digest = args.String(2)
			expires = args.Get(3).(time.Time)
		}).Return(nil).Once()
		var raw string
		email.On("SendResetEmail", ctx, "a@ugeco.sk", mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
			raw = args.String(2)
		}).Return(nil).Once()

		require.NoError(t, svc.RequestPasswordReset(ctx, "a@ugeco.sk"))
		assert.Equal(t, security.DigestToken(raw), digest)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expires, time.Minute)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, nil, new(MockEmailService), nil, 10*time.Minute)
		userRepo.On("GetByEmail", ctx, "x@ugeco.sk").Return(nil, repository.ErrNotFound)

		err := svc.RequestPasswordReset(ctx, "x@ugeco.sk")
		assertDomainError(t, err, domain.KindNotFound, "")
	})

	t.Run("MailFailure", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		email := new(MockEmailService)
		svc := service.NewAuthService(userRepo, nil, email, nil, 10*time.Minute)
		userRepo.On("GetByEmail", ctx, "a@ugeco.sk").Return(&domain.User{ID: 1, Email: "a@ugeco.sk"}, nil)
		userRepo.On("SetResetToken", ctx, int32(1), mock.Anything, mock.Anything).Return(nil)
		email.On("SendResetEmail", ctx, "a@ugeco.sk", mock.Anything).Return(errors.New("boom"))

		err := svc.RequestPasswordReset(ctx, "a@ugeco.sk")
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeEmailNotSent)
	})
}

// fakeTokenStore keeps one live reset digest and clears it on use.
type fakeTokenStore struct {
	*MockUserRepo
	digest  string
	expires time.Time
	hash    string
}

func (f *fakeTokenStore) ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) error {
	if f.digest == "" || f.digest != digest || !f.expires.After(now) {
		return repository.ErrNotFound
	}
	f.digest = ""
	f.hash = passwordHash
	return nil
}

func TestAuthService_ResetPassword_SingleUse(t *testing.T) {
	ctx := context.Background()
	raw, digest, err := security.NewOneTimeToken()
	require.NoError(t, err)

	store := &fakeTokenStore{MockUserRepo: new(MockUserRepo), digest: digest, expires: time.Now().Add(10 * time.Minute)}
	svc := service.NewAuthService(store, nil, nil, nil, 10*time.Minute)

	require.NoError(t, svc.ResetPassword(ctx, raw, "newpass1"))
	assert.True(t, security.CheckPassword(store.hash, "newpass1"))

	err = svc.ResetPassword(ctx, raw, "again12")
	assertDomainError(t, err, domain.KindBadRequest, domain.CodeInvalidToken)
	assert.Equal(t, "Invalid or expired token", err.(*domain.Error).Message)
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	raw, digest, err := security.NewOneTimeToken()
	require.NoError(t, err)

	store := &fakeTokenStore{MockUserRepo: new(MockUserRepo), digest: digest, expires: time.Now().Add(-time.Second)}
	svc := service.NewAuthService(store, nil, nil, nil, 10*time.Minute)

	err = svc.ResetPassword(context.Background(), raw, "newpass1")
	assertDomainError(t, err, domain.KindBadRequest, domain.CodeInvalidToken)
}

func TestAuthService_InitializePassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	svc := service.NewAuthService(userRepo, nil, nil, nil, 10*time.Minute)

	userRepo.On("ConsumeInitToken", ctx, security.DigestToken("good"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	userRepo.On("ConsumeInitToken", ctx, security.DigestToken("bad"), mock.Anything, mock.Anything).Return(repository.ErrNotFound).Once()

	require.NoError(t, svc.InitializePassword(ctx, "good", "secret1"))
	assertDomainError(t, svc.InitializePassword(ctx, "bad", "secret1"), domain.KindBadRequest, domain.CodeInvalidToken)
	assertDomainError(t, svc.InitializePassword(ctx, "", "secret1"), domain.KindBadRequest, domain.CodeInvalidToken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	svc := service.NewAuthService(userRepo, nil, nil, nil, 10*time.Minute)
	userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Ada"}, nil)
	userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, IsArchived: true}, nil)

	user, err := svc.Me(ctx, domain.Admin{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = svc.Me(ctx, domain.Creator{ID: 2})
	assertDomainError(t, err, domain.KindNotFound, "")
}
