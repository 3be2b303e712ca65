package middleware

import (
	"context"
	"net/http"
	"strings"

	"telemedicine-core/pkg/jwt"
	"telemedicine-core/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	RoleIDKey  contextKey = "role_id"
	TokenIDKey contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

// Authenticate resolves the acting user from the bearer token. Everything
// downstream trusts the user id placed on the context here.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Bearer token is required")
			return
		}

		claims, err := m.jwtService.ValidateToken(raw)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		live, err := m.isLive(r.Context(), claims)
		if err != nil {
			m.log.Warnf("Failed to check token %s: %+v", claims.TokenID, err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !live {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// isLive reports whether the identity service still holds the token's key.
// Logout deletes it.
func (m *AuthMiddleware) isLive(ctx context.Context, claims *jwt.Claims) (bool, error) {
	n, err := m.redisClient.Exists(ctx, jwt.AccessTokenKey(claims.UserID, claims.TokenID)).Result()
	return n > 0, err
}

func bearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)
	return context.WithValue(ctx, TokenIDKey, claims.TokenID)
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}
