package security

import (
	"errors"
	"strconv"
	"time"

	"ugeco-backoffice/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	issuer   = "ugeco-backoffice"
	audience = "backoffice-api"
)

// UserClaims is the session payload: identity plus the scope the principal carries.
type UserClaims struct {
	UserID    int32       `json:"id"`
	Name      string      `json:"name"`
	SurName   string      `json:"surName"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Countries []string    `json:"countries,omitempty"`
	Brands    []int32     `json:"brands,omitempty"`
	Package   *int32      `json:"package,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the caller variant.
func (c *UserClaims) Principal() (domain.Principal, error) {
	return domain.NewPrincipal(c.UserID, c.Role, c.Countries, c.Brands, c.Package)
}

type TokenManager interface {
	GenerateAccessToken(user *domain.User, rememberMe bool) (string, time.Time, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret        []byte
	accessTTL     time.Duration
	rememberMeTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, rememberMeTTL time.Duration) TokenManager {
	return &tokenManager{
		secret:        []byte(secret),
		accessTTL:     accessTTL,
		rememberMeTTL: rememberMeTTL,
	}
}

func (m *tokenManager) GenerateAccessToken(user *domain.User, rememberMe bool) (string, time.Time, error) {
	ttl := m.accessTTL
	if rememberMe {
		ttl = m.rememberMeTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := UserClaims{
		UserID:    user.ID,
		Name:      user.Name,
		SurName:   user.SurName,
		Email:     user.Email,
		Role:      user.Role,
		Countries: user.Countries,
		Brands:    user.Brands,
		Package:   user.PackageID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == 0 {
			uid, err := strconv.ParseInt(claims.Subject, 10, 32)
			if err != nil || uid <= 0 {
				return nil, ErrInvalidToken
			}
			claims.UserID = int32(uid)
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
