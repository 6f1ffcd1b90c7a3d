package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"swag-shop/internal/core/auth"
	"swag-shop/internal/core/config"
	"swag-shop/internal/core/server"
	mdw "swag-shop/internal/transport/http/middleware"
)

type Deps struct {
	Log *zap.Logger
	JWT *auth.JWTer
	// Roles, when set, re-reads the caller's role on every authenticated
	// request instead of trusting the token claim.
	Roles  mdw.RoleLookup
	Limits config.Limits
	// Modules are mounted in order; see PublicModule, UserModule and AdminModule.
	Modules []any
}

// NewAPIEngine builds the shop's HTTP surface. Zero-valued limits are
// left out of the chain.
func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log)

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(d.Log),
		mdw.Metrics(),
		mdw.Recovery(d.Log),
	)
	lim := d.Limits
	if lim.RPS > 0 {
		if lim.PerIP {
			r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst))
		} else {
			r.Use(mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
		}
	}
	if lim.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.Timeout() > 0 {
		r.Use(mdw.Timeout(lim.Timeout()))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mountAll(d.Modules, r, userGroup(r, d.JWT, d.Roles), adminGroup(r, d.JWT, d.Roles))
	return r
}
