package router

import "github.com/gin-gonic/gin"

// A module implements any of these to receive the matching route group.
type (
	PublicModule interface{ MountPublic(gin.IRoutes) }
	UserModule   interface{ MountUser(gin.IRoutes) }
	AdminModule  interface{ MountAdmin(gin.IRoutes) }
)

// mountAll hands each module the groups it asks for, in order.
func mountAll(mods []any, public, user, admin gin.IRoutes) {
	for _, m := range mods {
		if pm, ok := m.(PublicModule); ok {
			pm.MountPublic(public)
		}
		if um, ok := m.(UserModule); ok {
			um.MountUser(user)
		}
		if am, ok := m.(AdminModule); ok {
			am.MountAdmin(admin)
		}
	}
}
