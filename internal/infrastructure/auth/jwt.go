package auth

import (
	"errors"
	"time"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrInvalidClaims     = errors.New("invalid token claims")
	ErrTokenNotYetValid  = errors.New("token is not yet valid")
	ErrMissingOperatorID = errors.New("missing operator_id in claims")
	ErrTokenBlacklisted  = errors.New("token has been revoked")
)

// Claims represents custom JWT claims carried by an operator access token
type Claims struct {
	jwt.RegisteredClaims
	OperatorID    string   `json:"operator_id"`
	Username      string   `json:"username"`
	Roles         []string `json:"roles,omitempty"`
	Department    string   `json:"department,omitempty"`
	HodDepartment string   `json:"hod_department,omitempty"`
}

// IssuedToken is a signed access token with its expiry
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// Generate signs an access token for the given operator
func (s *JWTService) Generate(op *identity.Operator) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	roles := make([]string, len(op.Roles))
	for i, r := range op.Roles {
		roles[i] = string(r)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   op.ID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OperatorID:    op.ID.String(),
		Username:      op.Username,
		Roles:         roles,
		Department:    op.Department,
		HodDepartment: op.HodDepartment,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// Validate parses and validates an access token, returning its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

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

	if claims.OperatorID == "" {
		return nil, ErrMissingOperatorID
	}

	return claims, nil
}

// GetOperatorUUID extracts and parses the operator ID from claims
func (c *Claims) GetOperatorUUID() (uuid.UUID, error) {
	return uuid.Parse(c.OperatorID)
}

// ToActor converts the claims into the authorization context used by the
// application services
func (c *Claims) ToActor() (identity.ActorContext, error) {
	if _, err := c.GetOperatorUUID(); err != nil {
		return identity.ActorContext{}, ErrInvalidClaims
	}

	roles := make([]identity.RoleKind, 0, len(c.Roles))
	for _, r := range c.Roles {
		kind := identity.RoleKind(r)
		if !kind.IsValid() {
			return identity.ActorContext{}, ErrInvalidClaims
		}
		roles = append(roles, kind)
	}

	return identity.ActorContext{
		OperatorID:    c.OperatorID,
		Username:      c.Username,
		Roles:         roles,
		Department:    c.Department,
		HodDepartment: c.HodDepartment,
	}, nil
}

// GetIssuedAtTime returns the token's issued-at time as time.Time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.expiration
}
