package middleware

import (
	"github.com/gin-gonic/gin"

	resp "swag-shop/internal/transport/http/response"
)

// Context keys set by AuthJWT.
const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

func abort(c *gin.Context, code int, msg string) {
	r := resp.Error(code, msg)
	c.AbortWithStatusJSON(r.Status(), r)
}
