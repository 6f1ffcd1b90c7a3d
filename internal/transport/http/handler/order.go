package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"swag-shop/internal/domain"
	"swag-shop/internal/service"
	"swag-shop/internal/transport/http/ez"
)

// HeaderOrderID carries the id of the order a commit created.
const HeaderOrderID = "X-Order-ID"

// swagOrders accepts {"<swagId>": {"quantity": n}} as well as the older
// [{"id": <swagId>, "quantity": n}] form.
type swagOrders map[int]service.OrderQuantity

func (s *swagOrders) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []struct {
			ID       int `json:"id"`
			Quantity int `json:"quantity"`
		}
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		out := make(swagOrders, len(list))
		for _, it := range list {
			if _, dup := out[it.ID]; dup {
				return fmt.Errorf("swag %d listed twice", it.ID)
			}
			out[it.ID] = service.OrderQuantity{Quantity: it.Quantity}
		}
		*s = out
		return nil
	}
	var m map[int]service.OrderQuantity
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

type commitOrderIn struct {
	UserID          int        `json:"userId" binding:"required"`
	SwagOrders      swagOrders `json:"swagOrders"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Date            string     `json:"date"`
	PhoneNumber     string     `json:"phoneNumber"`
}

type Order struct {
	svc *service.OrderService
}

func NewOrder(svc *service.OrderService) *Order { return &Order{svc: svc} }

// MountUser registers POST /commit-order. g must already require a token.
// The response data is the updated catalog.
func (h *Order) MountUser(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[commitOrderIn, []domain.Swag]{
		Method: http.MethodPost,
		Path:   "/commit-order",
		Binder: ez.BindJSON,
		Owner:  func(in *commitOrderIn) int { return in.UserID },
		Handler: func(c *gin.Context, in *commitOrderIn) ([]domain.Swag, error) {
			res, err := h.svc.CommitOrder(c.Request.Context(), service.CommitOrderInput{
				UserID:     in.UserID,
				SwagOrders: in.SwagOrders,
				Delivery: domain.Delivery{
					Address:     in.DeliveryAddress,
					Date:        in.Date,
					PhoneNumber: in.PhoneNumber,
				},
			})
			if err != nil {
				return nil, toAction(err)
			}
			c.Header(HeaderOrderID, res.OrderID)
			if res.Catalog == nil {
				res.Catalog = []domain.Swag{}
			}
			return res.Catalog, nil
		},
	})
}
