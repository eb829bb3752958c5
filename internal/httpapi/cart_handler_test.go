package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentmpho/food-service-go/internal/cart"
)

type fakeCartRepo struct {
	getFunc        func(ctx context.Context, userID string) (*cart.Cart, error)
	applyDeltaFunc func(ctx context.Context, userID string, menuItemID int64, delta int) (*cart.Cart, error)
	clearFunc      func(ctx context.Context, userID string) error
}

func (f *fakeCartRepo) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, userID)
	}
	return nil, cart.ErrNotFound
}

func (f *fakeCartRepo) ApplyDelta(ctx context.Context, userID string, menuItemID int64, delta int) (*cart.Cart, error) {
	if f.applyDeltaFunc != nil {
		return f.applyDeltaFunc(ctx, userID, menuItemID, delta)
	}
	return nil, nil
}

func (f *fakeCartRepo) AttachPaymentRef(ctx context.Context, userID, paymentIntentID, clientSecret string) error {
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID string) error {
	if f.clearFunc != nil {
		return f.clearFunc(ctx, userID)
	}
	return nil
}

func TestGetCart_Success(t *testing.T) {
	repo := &fakeCartRepo{
		getFunc: func(ctx context.Context, userID string) (*cart.Cart, error) {
			return &cart.Cart{
				ID:     "cart-1",
				UserID: userID,
				Lines:  []cart.Line{{MenuItemID: 7, ItemName: "Margherita", Price: 4.00, Quantity: 3}},
				Total:  12.00,
			}, nil
		},
	}
	handler := NewCartHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/cart?userId=u1", nil)
	rr := httptest.NewRecorder()

	handler.GetCart(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp cart.Cart
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, 12.00, resp.Total)
}

func TestGetCart_MissingUserID(t *testing.T) {
	handler := NewCartHandler(&fakeCartRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rr := httptest.NewRecorder()

	handler.GetCart(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetCart_NotFound(t *testing.T) {
	handler := NewCartHandler(&fakeCartRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/cart?userId=u1", nil)
	rr := httptest.NewRecorder()

	handler.GetCart(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "shopping cart not found", resp["error"])
}

func TestApplyDelta_Success(t *testing.T) {
	var gotItem int64
	var gotDelta int
	repo := &fakeCartRepo{
		applyDeltaFunc: func(ctx context.Context, userID string, menuItemID int64, delta int) (*cart.Cart, error) {
			gotItem, gotDelta = menuItemID, delta
			return &cart.Cart{ID: "cart-1", UserID: userID, Lines: []cart.Line{{MenuItemID: menuItemID, Quantity: delta}}}, nil
		},
	}
	handler := NewCartHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/cart?userId=u1&menuItemId=7&delta=3", nil)
	rr := httptest.NewRecorder()

	handler.ApplyDelta(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(7), gotItem)
	assert.Equal(t, 3, gotDelta)
}

func TestApplyDelta_CartDeleted(t *testing.T) {
	repo := &fakeCartRepo{
		applyDeltaFunc: func(ctx context.Context, userID string, menuItemID int64, delta int) (*cart.Cart, error) {
			return nil, nil
		},
	}
	handler := NewCartHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/cart?userId=u1&menuItemId=7&delta=0", nil)
	rr := httptest.NewRecorder()

	handler.ApplyDelta(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Contains(t, resp["message"], "deleted")
}

func TestApplyDelta_BadParams(t *testing.T) {
	handler := NewCartHandler(&fakeCartRepo{})

	for _, target := range []string{
		"/api/cart?menuItemId=7&delta=1",
		"/api/cart?userId=u1&menuItemId=abc&delta=1",
		"/api/cart?userId=u1&menuItemId=7&delta=x",
	} {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		rr := httptest.NewRecorder()

		handler.ApplyDelta(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "target %s", target)
	}
}

func TestApplyDelta_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{cart.ErrMenuItemNotFound, http.StatusNotFound},
		{cart.ErrInvalidDelta, http.StatusBadRequest},
		{cart.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		repo := &fakeCartRepo{
			applyDeltaFunc: func(ctx context.Context, userID string, menuItemID int64, delta int) (*cart.Cart, error) {
				return nil, tc.err
			},
		}
		handler := NewCartHandler(repo)

		req := httptest.NewRequest(http.MethodPost, "/api/cart?userId=u1&menuItemId=7&delta=1", nil)
		rr := httptest.NewRecorder()

		handler.ApplyDelta(rr, req)

		assert.Equal(t, tc.want, rr.Code, "error %v", tc.err)
	}
}

func TestClearCart(t *testing.T) {
	cleared := ""
	repo := &fakeCartRepo{
		clearFunc: func(ctx context.Context, userID string) error {
			cleared = userID
			return nil
		},
	}
	handler := NewCartHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart?userId=u1", nil)
	rr := httptest.NewRecorder()

	handler.ClearCart(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "u1", cleared)
}
