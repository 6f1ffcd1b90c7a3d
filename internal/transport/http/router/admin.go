package router

import (
	"github.com/gin-gonic/gin"

	"swag-shop/internal/core/auth"
	"swag-shop/internal/domain"
	mdw "swag-shop/internal/transport/http/middleware"
)

// Admin and user routes share the public paths; only the token check differs.
func userGroup(r *gin.Engine, j *auth.JWTer, roles mdw.RoleLookup) *gin.RouterGroup {
	return r.Group("", mdw.AuthJWT(j, "", roles))
}

func adminGroup(r *gin.Engine, j *auth.JWTer, roles mdw.RoleLookup) *gin.RouterGroup {
	return r.Group("", mdw.AuthJWT(j, domain.RoleAdmin, roles))
}
