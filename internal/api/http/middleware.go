package http

import (
	"errors"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// TokenValidator decodes a bearer token into its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*security.UserClaims, error)
}

// RequestIDMiddleware reuses X-Request-ID or assigns a new one.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// LoggingMiddleware writes one line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		logger.DebugContext(r.Context(), "HTTP request started", "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(wrapped, r)

		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size_bytes", wrapped.size,
		)
	})
}

// RecoverMiddleware turns a handler panic into a 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Panic while serving request", "panic", rec, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Kind:      "Internal",
					Message:   "Internal server error",
					RequestID: logger.RequestID(r.Context()),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows the configured front-end origin. An empty origin allows any.
func CORSMiddleware(origin string) mux.MiddlewareFunc {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware authenticates bearer tokens and stores the caller in the
// request context.
type AuthMiddleware struct {
	tokens TokenValidator
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, security.ErrExpiredToken) {
				msg = "Token has expired"
			}
			writeError(w, r, domain.Unauthorized("", msg))
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			writeError(w, r, domain.Unauthorized("", "Invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.Unauthorized("", "Authorization header is required")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", domain.Unauthorized("", "Authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}

// RequireRole lets only the listed roles through. It must run after AuthMiddleware.
func RequireRole(roles ...domain.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalOrFail(w, r)
			if !ok {
				return
			}
			if !slices.Contains(roles, p.PrincipalRole()) {
				writeError(w, r, domain.Forbidden("Insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
