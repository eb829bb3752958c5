package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentmpho/food-service-go/internal/checkout"
	"github.com/vincentmpho/food-service-go/internal/order"
	"github.com/vincentmpho/food-service-go/internal/payment"
)

type fakeCheckouter struct {
	checkoutFunc func(ctx context.Context, userID string, info checkout.ContactInfo) (*order.Order, error)
}

func (f *fakeCheckouter) Checkout(ctx context.Context, userID string, info checkout.ContactInfo) (*order.Order, error) {
	return f.checkoutFunc(ctx, userID, info)
}

func TestCheckout_Success(t *testing.T) {
	coord := &fakeCheckouter{
		checkoutFunc: func(ctx context.Context, userID string, info checkout.ContactInfo) (*order.Order, error) {
			require.Equal(t, "u1", userID)
			require.Equal(t, "Alice", info.Name)
			return &order.Order{ID: 42, UserID: userID, Total: 28.00, Status: order.StatusPending}, nil
		},
	}
	handler := NewCheckoutHandler(coord)

	body := strings.NewReader(`{"userId":"u1","pickupName":"Alice","pickupPhone":"555-0100","pickupEmail":"alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", body)
	rr := httptest.NewRecorder()

	handler.Checkout(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp order.Order
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, 28.00, resp.Total)
}

func TestCheckout_MissingUserID(t *testing.T) {
	called := false
	coord := &fakeCheckouter{
		checkoutFunc: func(ctx context.Context, userID string, info checkout.ContactInfo) (*order.Order, error) {
			called = true
			return nil, nil
		},
	}
	handler := NewCheckoutHandler(coord)

	body := strings.NewReader(`{"pickupName":"Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", body)
	rr := httptest.NewRecorder()

	handler.Checkout(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, called)
}

func TestCheckout_InvalidJSON(t *testing.T) {
	handler := NewCheckoutHandler(&fakeCheckouter{})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	handler.Checkout(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckout_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest},
		{"invalid order", fmt.Errorf("%w: pickup name is required", order.ErrInvalidOrder), http.StatusBadRequest},
		{"provider failure", fmt.Errorf("%w: card declined", payment.ErrProvider), http.StatusBadGateway},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coord := &fakeCheckouter{
				checkoutFunc: func(ctx context.Context, userID string, info checkout.ContactInfo) (*order.Order, error) {
					return nil, tc.err
				},
			}
			handler := NewCheckoutHandler(coord)

			body := strings.NewReader(`{"userId":"u1","pickupName":"Alice"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", body)
			rr := httptest.NewRecorder()

			handler.Checkout(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}
