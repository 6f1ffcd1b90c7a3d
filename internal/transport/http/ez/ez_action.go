// Package ez registers JSON endpoints as typed actions: bind the input,
// enforce the caller's identity, run the handler and write the envelope.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mdw "swag-shop/internal/transport/http/middleware"
	resp "swag-shop/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// AErr carries the envelope code for a failed action.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func Fail(code int, msg string, err error) error { return &AErr{Code: code, Msg: msg, Err: err} }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action describes one endpoint: I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool         // require a caller id set by AuthJWT
	Roles   []string     // optional role allow-list
	Owner   func(*I) int // when set, the caller must be this user or an admin
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction mounts a on g.
func RegisterAction[I any, O any](g gin.IRoutes, a Action[I, O]) {
	h := func(c *gin.Context) {
		uid, authed := callerID(c)
		role := c.GetString(mdw.KeyRole)
		if a.Auth || a.Owner != nil || len(a.Roles) > 0 {
			if !authed {
				write(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !contains(a.Roles, role) {
				write(c, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			_ = c.Error(bindErr)
			write(c, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		if a.Owner != nil && role != "admin" && a.Owner(&in) != uid {
			write(c, resp.Error(resp.CodeForbidden, "token does not belong to this user"))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			_ = c.Error(err)
			var ae *AErr
			if errors.As(err, &ae) {
				write(c, resp.Error(ae.Code, ae.Error()))
				return
			}
			write(c, resp.Error(resp.CodeServerError, "internal error"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default:
		g.POST(a.Path, h)
	}
}

func callerID(c *gin.Context) (int, bool) {
	v, ok := c.Get(mdw.KeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func write(c *gin.Context, r resp.Resp) {
	c.AbortWithStatusJSON(r.Status(), r)
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
