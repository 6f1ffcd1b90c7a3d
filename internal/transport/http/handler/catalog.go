package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"swag-shop/internal/domain"
	"swag-shop/internal/service"
	"swag-shop/internal/transport/http/ez"
)

type Catalog struct {
	svc *service.CatalogService
}

func NewCatalog(svc *service.CatalogService) *Catalog { return &Catalog{svc: svc} }

// MountPublic registers GET /swags.
func (h *Catalog) MountPublic(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[struct{}, []domain.Swag]{
		Method: http.MethodGet,
		Path:   "/swags",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Swag, error) {
			out, err := h.svc.List(c.Request.Context())
			if out == nil {
				out = []domain.Swag{}
			}
			return out, toAction(err)
		},
	})
}

// MountAdmin registers swag create, edit and delete. g must already require
// an admin token.
func (h *Catalog) MountAdmin(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[service.SwagAttrs, domain.Swag]{
		Method: http.MethodPost,
		Path:   "/swags",
		Binder: ez.BindJSON,
		Roles:  []string{string(domain.RoleAdmin)},
		Handler: func(c *gin.Context, in *service.SwagAttrs) (domain.Swag, error) {
			sw, err := h.svc.Create(c.Request.Context(), *in)
			return sw, toAction(err)
		},
	})

	// The id comes from the path; any id in the body is ignored.
	ez.RegisterAction(g, ez.Action[service.SwagAttrs, domain.Swag]{
		Method: http.MethodPost,
		Path:   "/swags/:id",
		Binder: ez.BindJSON,
		Roles:  []string{string(domain.RoleAdmin)},
		Handler: func(c *gin.Context, in *service.SwagAttrs) (domain.Swag, error) {
			id, err := pathID(c)
			if err != nil {
				return domain.Swag{}, err
			}
			sw, err := h.svc.Edit(c.Request.Context(), id, *in)
			return sw, toAction(err)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/swags/:id",
		Binder: ez.BindNone,
		Roles:  []string{string(domain.RoleAdmin)},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := pathID(c)
			if err != nil {
				return nil, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return nil, toAction(err)
			}
			return gin.H{"id": id}, nil
		},
	})
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, ez.BadRequest("id must be an integer")
	}
	return id, nil
}
