package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the browser page reads the bearer token from.
const TokenCookie = "access_token"

type contextKey string

const ownerKey contextKey = "owner"

var (
	errMissingToken = errors.New("authorization token required")
	errInvalidToken = errors.New("invalid token")
)

// NewToken signs an HS256 token identifying subject.
func NewToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth secret is not configured")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("token subject is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// authenticate rejects requests without a valid token and stores the token
// subject as the request owner.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			log.Printf("token rejected: %v", err)
			writeError(w, http.StatusUnauthorized, errInvalidToken)
			return
		}
		if strings.TrimSpace(claims.Subject) == "" {
			writeError(w, http.StatusUnauthorized, errInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), ownerKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("invalid Authorization header format")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errMissingToken
}

// ownerFrom returns the authenticated owner, or "" in single-user mode.
func ownerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}
