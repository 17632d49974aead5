package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/accept/school-service/internal/domain"
)

var (
	// ErrTokenInvalid covers unsigned, badly signed or otherwise unusable tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenMalformed is reported when the token is not a parseable JWT.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired is reported when the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the time source used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Claims describes JWT payload. The subject is the employee email.
type Claims struct {
	jwt.RegisteredClaims
}

// TTL returns the lifetime of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken builds and signs a JWT for the subject.
func (tm *TokenManager) GenerateToken(subject string) (domain.AccessToken, error) {
	issuedAt := tm.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return domain.AccessToken{}, err
	}
	return domain.AccessToken{
		Token:     tokenString,
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates the token and returns its claims. Every failure is
// one of ErrTokenMalformed, ErrTokenExpired or ErrTokenInvalid.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Validate returns the subject of a valid token.
func (tm *TokenManager) Validate(tokenStr string) (string, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
