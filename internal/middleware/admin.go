package middleware

import (
	"context"
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

const adminClaimsKey ContextKey = "adminClaims"

// AdminJWT validates operator session tokens and optionally enforces a role.
// A super admin passes every role check.
func AdminJWT(secret []byte, requiredRoles ...models.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}

			claims, err := auth.ValidateAdminJWT(token, secret)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if len(requiredRoles) > 0 && claims.Role != string(models.AdminRoleSuper) {
				hasPermission := false
				for _, role := range requiredRoles {
					if claims.Role == string(role) {
						hasPermission = true
						break
					}
				}
				if !hasPermission {
					utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
					return
				}
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFrom retrieves the admin claims from the request context
func AdminClaimsFrom(ctx context.Context) (*auth.AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*auth.AdminClaims)
	return claims, ok
}
