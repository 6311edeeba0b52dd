package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
	"ugeco-backoffice/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	emailSvc EmailService
	limiter  AttemptLimiter
	resetTTL time.Duration
}

// NewAuthService wires sign-in and the one-time token flows. limiter may be nil.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, emailSvc EmailService, limiter AttemptLimiter, resetTTL time.Duration) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		emailSvc: emailSvc,
		limiter:  limiter,
		resetTTL: resetTTL,
	}
}

func errInvalidCredentials() *domain.Error {
	return domain.Unauthorized(domain.CodeInvalidCredentials, "Invalid email or password")
}

func (s *authService) SignIn(ctx context.Context, email, password string, rememberMe bool) (*SignInResult, error) {
	email = domain.NormalizeEmail(email)
	logger.EnterMethod("authService.SignIn", "email", email, "rememberMe", rememberMe)

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			logger.WarnContext(ctx, "Login limiter unavailable", "error", err)
		} else if !allowed {
			return nil, domain.TooManyRequests("Too many sign-in attempts, try again later")
		}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if user.IsArchived || !security.CheckPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials()
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			logger.WarnContext(ctx, "Failed to reset login limiter", "error", err)
		}
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	logger.ExitMethod("authService.SignIn", "userID", user.ID)
	return &SignInResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// RequestPasswordReset stores a fresh reset digest and mails the raw token.
// The digest stays stored even when mailing fails.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	logger.EnterMethod("authService.RequestPasswordReset", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return notFoundOr(err, "User with this email does not exist")
	}
	if user.IsArchived {
		return domain.NotFound("User with this email does not exist")
	}

	raw, digest, err := security.NewOneTimeToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, digest, time.Now().Add(s.resetTTL)); err != nil {
		logger.ExitMethodWithError("authService.RequestPasswordReset", err, "userID", user.ID)
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.emailSvc.SendResetEmail(ctx, user.Email, raw); err != nil {
		logger.ExitMethodWithError("authService.RequestPasswordReset", err, "userID", user.ID)
		return domain.BadRequest(domain.CodeEmailNotSent, "Could not send password reset email")
	}

	logger.ExitMethod("authService.RequestPasswordReset", "userID", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	return s.consume(ctx, "authService.ResetPassword", token, password, s.userRepo.ConsumeResetToken)
}

func (s *authService) InitializePassword(ctx context.Context, token, password string) error {
	return s.consume(ctx, "authService.InitializePassword", token, password, s.userRepo.ConsumeInitToken)
}

type consumeFunc func(ctx context.Context, digest, passwordHash string, now time.Time) error

// consume matches the token digest, sets the password and clears the token in
// a single conditional update. Every miss reads the same to the caller.
func (s *authService) consume(ctx context.Context, method, token, password string, fn consumeFunc) error {
	logger.EnterMethod(method)
	if token == "" {
		return domain.ErrInvalidOrExpiredToken()
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	if err := fn(ctx, security.DigestToken(token), hash, time.Now()); err != nil {
		logger.ExitMethodWithError(method, err)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrInvalidOrExpiredToken()
		}
		return err
	}
	logger.ExitMethod(method)
	return nil
}

func (s *authService) Me(ctx context.Context, caller domain.Principal) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, caller.PrincipalID())
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	if user.IsArchived {
		return nil, domain.NotFound("User not found")
	}
	return user, nil
}
