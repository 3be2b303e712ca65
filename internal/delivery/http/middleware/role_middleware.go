package middleware

import (
	"net/http"
	"slices"
	"strings"

	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/pkg/response"
)

// RequireRole gates a route on the token's role. It only says which kind of
// account may call the route; whether the caller is assigned to the
// appointment is decided by the use cases.
func RequireRole(roleIDs ...int) func(http.Handler) http.Handler {
	names := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		names[i] = entity.RoleName(id)
	}
	denied := "This action is only available to " + strings.Join(names, " or ") + " accounts"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			switch {
			case !ok:
				response.Unauthorized(w, "Role information not found")
			case !slices.Contains(roleIDs, roleID):
				response.Forbidden(w, denied)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDPatient)(next)
}
