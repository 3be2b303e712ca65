package jwt

import (
	"errors"
	"fmt"
	"time"

	"telemedicine-core/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken wraps every verification failure
var ErrInvalidToken = errors.New("invalid token")

type TokenType string

const AccessToken TokenType = "access"

// Claims carried by access tokens. Tokens are minted by the identity service
// that owns registration and login; this service only verifies them.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	RoleID    int       `json:"role_id"`
	TokenType TokenType `json:"token_type"`
	TokenID   string    `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret       []byte
	accessExpiry time.Duration
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:       []byte(cfg.Secret),
		accessExpiry: cfg.AccessExpiry,
	}
}

// AccessTokenKey is the Redis key whose presence marks an access token as live
func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID, tokenID)
}

// GenerateAccessToken signs a token in the identity service's format.
// The caller registers the returned token id in Redis.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, email string, roleID int) (token, tokenID string, err error) {
	tokenID = uuid.NewString()
	issuedAt := time.Now()

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		RoleID:    roleID,
		TokenType: AccessToken,
		TokenID:   tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	return token, tokenID, nil
}

// ValidateToken checks signature, algorithm and expiry, and only accepts
// access tokens that carry a token id.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != AccessToken || claims.TokenID == "" {
		return nil, fmt.Errorf("%w: not an access token", ErrInvalidToken)
	}
	return claims, nil
}

func (s *JWTService) key(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}
