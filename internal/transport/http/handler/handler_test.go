package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swag-shop/internal/domain"
	"swag-shop/internal/notify"
	"swag-shop/internal/service"
	"swag-shop/internal/transport/http/ez"
)

func TestSwagOrders_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    swagOrders
		wantErr bool
	}{
		{name: "object form", body: `{"1":{"quantity":2},"7":{"quantity":1}}`, want: swagOrders{1: {Quantity: 2}, 7: {Quantity: 1}}},
		{name: "array form", body: ` [{"id":3,"quantity":4}]`, want: swagOrders{3: {Quantity: 4}}},
		{name: "duplicate id in array", body: `[{"id":3,"quantity":1},{"id":3,"quantity":2}]`, wantErr: true},
		{name: "non numeric key", body: `{"mug":{"quantity":1}}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in commitOrderIn
			err := json.Unmarshal([]byte(`{"userId":1,"swagOrders":`+tc.body+`}`), &in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, in.SwagOrders)
		})
	}
}

func TestToAction(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: missing name", service.ErrValidation), 400},
		{service.ErrDuplicateEmail, 401},
		{service.ErrDuplicateUsername, 401},
		{service.ErrInvalidCredentials, 401},
		{service.ErrWrongPassword, 401},
		{service.ErrWrongTemporaryPassword, 401},
		{service.ErrExpired, 401},
		{service.ErrUserNotFound, 404},
		{service.ErrInsufficientStock, 409},
		{errors.Join(notify.ErrNotification, errors.New("dial tcp")), 502},
		{fmt.Errorf("%w: write: disk full", domain.ErrStoreIO), 500},
		{errors.New("boom"), 500},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			var ae *ez.AErr
			require.ErrorAs(t, toAction(tc.err), &ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.ErrorIs(t, ae, tc.err)
		})
	}
	assert.NoError(t, toAction(nil))
}
