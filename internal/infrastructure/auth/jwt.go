package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing org_id in claims")
	ErrMissingUserID    = errors.New("missing sub in claims")
)

// Claims are the claims the authentication provider puts in its access
// tokens. The subject is the user; org_id scopes every query.
type Claims struct {
	jwt.RegisteredClaims
	OrgID string `json:"org_id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Verifier validates HS256 access tokens. Tokens are issued elsewhere;
// this backend never signs them.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

// NewVerifier creates a verifier from the JWT configuration
func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   30 * time.Second,
	}
}

// Verify parses tokenString and returns its claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingUserID
	}
	if claims.OrgID == "" {
		return nil, ErrMissingTenantID
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidClaims
	}
	if _, err := uuid.Parse(claims.OrgID); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetTenantUUID returns the organization the token is scoped to
func (c *Claims) GetTenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.OrgID)
}

// GetUserUUID returns the authenticated user
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
