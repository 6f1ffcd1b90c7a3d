package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"swag-shop/internal/core/auth"
	"swag-shop/internal/domain"
	resp "swag-shop/internal/transport/http/response"
)

// RoleLookup returns the caller's current role from the user store.
type RoleLookup func(ctx context.Context, userID int) (domain.Role, error)

// AuthJWT requires a valid bearer token and, when requireRole is set, that
// role. With a non-nil lookup the stored role replaces the token's claim, so
// a demotion takes effect before the token expires; a caller the lookup
// cannot find is rejected. The caller's id and role are stored under
// KeyUserID and KeyRole.
func AuthJWT(j *auth.JWTer, requireRole domain.Role, lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		uid, err := claims.UserID()
		if err != nil {
			abort(c, resp.CodeUnauthorized, "invalid token subject")
			return
		}
		role := claims.Role
		if lookup != nil {
			r, err := lookup(c.Request.Context(), uid)
			if err != nil {
				_ = c.Error(err)
				abort(c, resp.CodeUnauthorized, "unknown user")
				return
			}
			role = string(r)
		}
		if requireRole != "" && role != string(requireRole) {
			abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, uid)
		c.Set(KeyRole, role)
		c.Next()
	}
}
