package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"swag-shop/internal/core/auth"
	"swag-shop/internal/domain"
	"swag-shop/internal/notify"
	"swag-shop/internal/service"
	"swag-shop/internal/transport/http/ez"
	resp "swag-shop/internal/transport/http/response"
)

type Account struct {
	svc *service.AccountService
	jwt *auth.JWTer
}

func NewAccount(svc *service.AccountService, j *auth.JWTer) *Account {
	return &Account{svc: svc, jwt: j}
}

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

type changePasswordIn struct {
	UserID          int    `json:"userId" binding:"required"`
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type forgetPasswordIn struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordIn struct {
	Username          string `json:"username" binding:"required"`
	TemporaryPassword string `json:"temporaryPassword" binding:"required"`
	NewPassword       string `json:"newPassword" binding:"required"`
}

type userIn struct {
	UserID int `json:"userId" binding:"required"`
}

// MountPublic registers sign-up, login, forget-password and reset-password.
func (h *Account) MountPublic(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[service.SignUpInput, domain.Profile]{
		Method: http.MethodPost,
		Path:   "/sign-up",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SignUpInput) (domain.Profile, error) {
			p, err := h.svc.SignUp(c.Request.Context(), *in)
			return p, toAction(err)
		},
	})

	ez.RegisterAction(g, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			p, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return loginOut{}, toAction(err)
			}
			tok, err := h.jwt.Issue(p.ID, p.Role)
			if err != nil {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: p}, nil
		},
	})

	// Always 200 so the endpoint does not reveal which emails are registered.
	ez.RegisterAction(g, ez.Action[forgetPasswordIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/forget-password",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *forgetPasswordIn) (gin.H, error) {
			err := h.svc.ForgetPassword(c.Request.Context(), in.Email)
			if errors.Is(err, notify.ErrNotification) {
				_ = c.Error(err)
				err = nil
			}
			return gin.H{}, toAction(err)
		},
	})

	ez.RegisterAction(g, ez.Action[resetPasswordIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/reset-password",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *resetPasswordIn) (gin.H, error) {
			err := h.svc.ResetPassword(c.Request.Context(), in.Username, in.TemporaryPassword, in.NewPassword)
			if errors.Is(err, service.ErrUserNotFound) {
				return nil, ez.Fail(resp.CodeUnauthorized, service.ErrWrongTemporaryPassword.Error(), err)
			}
			return gin.H{}, toAction(err)
		},
	})
}

// MountUser registers the routes acting on the caller's own account. g must
// already require a token.
func (h *Account) MountUser(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[changePasswordIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/change-password",
		Binder: ez.BindJSON,
		Owner:  func(in *changePasswordIn) int { return in.UserID },
		Handler: func(c *gin.Context, in *changePasswordIn) (gin.H, error) {
			err := h.svc.ChangePassword(c.Request.Context(), in.UserID, in.CurrentPassword, in.NewPassword)
			return gin.H{}, toAction(err)
		},
	})

	ez.RegisterAction(g, ez.Action[userIn, []domain.OrderRecord]{
		Method: http.MethodPost,
		Path:   "/my-order",
		Binder: ez.BindJSON,
		Owner:  func(in *userIn) int { return in.UserID },
		Handler: func(c *gin.Context, in *userIn) ([]domain.OrderRecord, error) {
			out, err := h.svc.Orders(c.Request.Context(), in.UserID)
			return out, toAction(err)
		},
	})
}

// MountAdmin registers GET /admin/users.
func (h *Account) MountAdmin(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[struct{}, []domain.Profile]{
		Method: http.MethodGet,
		Path:   "/admin/users",
		Binder: ez.BindNone,
		Roles:  []string{string(domain.RoleAdmin)},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Profile, error) {
			out, err := h.svc.Users(c.Request.Context())
			return out, toAction(err)
		},
	})
}
