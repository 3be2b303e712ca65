package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telemedicine-core/config"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	mr         *miniredis.Miniredis
	jwtService *jwt.JWTService
	middleware *AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "middleware-test", AccessExpiry: time.Minute})
	return &authFixture{
		mr:         mr,
		jwtService: jwtService,
		middleware: NewAuthMiddleware(jwtService, client, logrus.New()),
	}
}

// issue signs a token and registers it as live unless revoked is set
func (f *authFixture) issue(t *testing.T, userID uuid.UUID, roleID int, revoked bool) string {
	t.Helper()
	token, tokenID, err := f.jwtService.GenerateAccessToken(userID, "user@example.test", roleID)
	require.NoError(t, err)
	if !revoked {
		require.NoError(t, f.mr.Set(jwt.AccessTokenKey(userID, tokenID), "1"))
	}
	return token
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := f.middleware.Authenticate(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"revoked token", "Bearer " + f.issue(t, userID, entity.RoleIDPatient, true), http.StatusUnauthorized},
		{"live token", "Bearer " + f.issue(t, userID, entity.RoleIDPatient, false), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, userID, seen)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		handler http.Handler
		roleID  *int
		want    int
	}{
		{"doctor allowed", RequireDoctor(next), intPtr(entity.RoleIDDoctor), http.StatusNoContent},
		{"patient on doctor route", RequireDoctor(next), intPtr(entity.RoleIDPatient), http.StatusForbidden},
		{"patient allowed", RequirePatient(next), intPtr(entity.RoleIDPatient), http.StatusNoContent},
		{"no role on context", RequirePatient(next), nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.roleID != nil {
				req = req.WithContext(context.WithValue(req.Context(), RoleIDKey, *tt.roleID))
			}
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func intPtr(v int) *int { return &v }
