package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken covers every reason a bearer token is unusable: bad
// signature, wrong algorithm, expired, or malformed claims.
var ErrInvalidToken = errors.New("invalid or expired token")

const issuer = "donorhub"

// Claims is the token payload: the user id as subject plus the role the
// user had when the token was issued.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens and loads the
// authenticated user into each request.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	fetcher UserFetcher
	log     *zap.Logger
	now     func() time.Time
}

// NewTokenManager builds a manager. The secret must not be empty; a short
// secret is accepted with a warning (config validation refuses it in prod).
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		log:    logger,
		now:    time.Now,
	}, nil
}

// SetUserFetcher installs the lookup LoadTokenUser uses to resolve the
// token subject. Without one, LoadTokenUser trusts the claims.
func (tm *TokenManager) SetUserFetcher(f UserFetcher) {
	tm.fetcher = f
}

// TTL is the validity window of issued tokens.
func (tm *TokenManager) TTL() time.Duration { return tm.ttl }

// Issue signs a token for userID.
func (tm *TokenManager) Issue(userID, role string) (string, time.Time, error) {
	now := tm.now()
	exp := now.Add(tm.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies a token and returns its claims.
func (tm *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// LoadTokenUser injects the user into context when the request carries a
// valid bearer token whose subject still resolves to a user. Anything
// else leaves the request anonymous; the gates decide what that means.
func (tm *TokenManager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := tm.Parse(raw)
		if err != nil {
			tm.log.Debug("rejected bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		var u *SessionUser
		if tm.fetcher != nil {
			u = tm.fetcher.FetchUser(r.Context(), claims.Subject)
			if u == nil {
				tm.log.Debug("token subject no longer exists", zap.String("user_id", claims.Subject))
				next.ServeHTTP(w, r)
				return
			}
		} else {
			u = &SessionUser{ID: claims.Subject, Role: claims.Role}
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}
