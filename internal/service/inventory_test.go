package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swag-shop/internal/domain"
)

func catalog() []domain.Swag {
	return []domain.Swag{
		{ID: 1, Name: "Mug", Quantity: 5, Category: "kitchen", Image: "https://cdn/mug.png"},
		{ID: 2, Name: "Tee", Quantity: 10, Category: "apparel", Image: "https://cdn/tee.png"},
		{ID: 7, Name: "Sticker", Quantity: 100, Category: "misc", Image: "https://cdn/sticker.png"},
	}
}

func TestApplyOrderDeltas_OnlyTouchesRequestedIDs(t *testing.T) {
	in := catalog()
	out := ApplyOrderDeltas(in, map[int]int{2: 3, 99: 4})

	require.Len(t, out, 3)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, 7, out[1].Quantity)
	assert.Equal(t, in[2], out[2])
	assert.Equal(t, 10, in[1].Quantity, "input must not be modified")
}

func TestApplyOrderDeltas_AllowsNegativeStock(t *testing.T) {
	out := ApplyOrderDeltas(catalog(), map[int]int{1: 8})
	assert.Equal(t, -3, out[0].Quantity)
}

func TestCheckStock(t *testing.T) {
	assert.NoError(t, CheckStock(catalog(), map[int]int{1: 5, 99: 1000}))
	err := CheckStock(catalog(), map[int]int{1: 6})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestNextSwagID(t *testing.T) {
	assert.Equal(t, 1, NextSwagID(nil))
	assert.Equal(t, 8, NextSwagID(catalog()), "gaps in ids are not reused")
}

func TestCreateSwag(t *testing.T) {
	tests := []struct {
		name    string
		catalog []domain.Swag
		attrs   SwagAttrs
		wantID  int
		wantErr error
	}{
		{name: "empty catalog", attrs: SwagAttrs{Name: "Cap", Quantity: intp(3), Category: "apparel"}, wantID: 1},
		{name: "non contiguous ids", catalog: catalog(), attrs: SwagAttrs{Name: "Cap", Quantity: intp(0), Category: "apparel"}, wantID: 8},
		{name: "missing name", attrs: SwagAttrs{Quantity: intp(1), Category: "x"}, wantErr: ErrValidation},
		{name: "missing quantity", attrs: SwagAttrs{Name: "Cap", Category: "x"}, wantErr: ErrValidation},
		{name: "negative quantity", attrs: SwagAttrs{Name: "Cap", Quantity: intp(-1), Category: "x"}, wantErr: ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sw, err := CreateSwag(tc.catalog, tc.attrs)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, sw.ID)
			assert.Equal(t, tc.attrs.Name, sw.Name)
		})
	}
}

func TestEditSwag(t *testing.T) {
	attrs := SwagAttrs{Name: "Big Mug", Quantity: intp(9), Category: "kitchen", Image: "https://cdn/bigmug.png"}

	out, edited, found, err := EditSwag(catalog(), 1, attrs)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.Swag{ID: 1, Name: "Big Mug", Quantity: 9, Category: "kitchen", Image: "https://cdn/bigmug.png"}, out[0])
	assert.Equal(t, out[0], edited)
	assert.Equal(t, catalog()[1:], out[1:])

	out, _, found, err = EditSwag(catalog(), 42, attrs)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, catalog(), out)
}

func TestDeleteSwag(t *testing.T) {
	out, found := DeleteSwag(catalog(), 2)
	assert.True(t, found)
	assert.Equal(t, []int{1, 7}, ids(out))

	out, found = DeleteSwag(catalog(), 3)
	assert.False(t, found)
	assert.Equal(t, catalog(), out)
}

func ids(sw []domain.Swag) []int {
	out := make([]int, 0, len(sw))
	for _, s := range sw {
		out = append(out, s.ID)
	}
	return out
}

func TestCatalogService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tx := newTx(nil)
	svc := NewCatalogService(tx, nopLog)

	first, err := svc.Create(ctx, SwagAttrs{Name: "Mug", Quantity: intp(5), Category: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	second, err := svc.Create(ctx, SwagAttrs{Name: "Tee", Quantity: intp(2), Category: "apparel"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	edited, err := svc.Edit(ctx, 1, SwagAttrs{Name: "Mug v2", Quantity: intp(6), Category: "kitchen", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, 1, edited.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, edited, list[0])

	require.NoError(t, svc.Delete(ctx, 2))
	require.NoError(t, svc.Delete(ctx, 2), "second delete is a no-op")
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(list))

	_, err = svc.Create(ctx, SwagAttrs{Name: "bad"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_Seed(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTx(&domain.Snapshot{Swags: catalog()}), nopLog)

	created, err := svc.Seed(ctx, []SwagAttrs{
		{Name: "Cap", Quantity: intp(1), Category: "apparel"},
		{Name: "Pin", Quantity: intp(2), Category: "misc"},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9}, ids(created))

	_, err = svc.Seed(ctx, []SwagAttrs{{Name: "ok", Quantity: intp(1), Category: "x"}, {Name: "broken"}})
	assert.ErrorIs(t, err, ErrValidation)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5, "a failed seed writes nothing")
}
