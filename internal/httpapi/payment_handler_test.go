package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentmpho/food-service-go/internal/payment"
)

type fakeAuthorizer struct {
	authorizeFunc func(ctx context.Context, userID string) (*payment.Handle, error)
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, userID string) (*payment.Handle, error) {
	return f.authorizeFunc(ctx, userID)
}

func TestMakePayment_Success(t *testing.T) {
	auth := &fakeAuthorizer{
		authorizeFunc: func(ctx context.Context, userID string) (*payment.Handle, error) {
			require.Equal(t, "u1", userID)
			return &payment.Handle{
				ProviderTransactionID: "pi_123",
				ClientSecret:          "secret_abc",
				Amount:                28.00,
				Currency:              "usd",
			}, nil
		},
	}
	handler := NewPaymentHandler(auth)

	req := httptest.NewRequest(http.MethodPost, "/api/payments?userId=u1", nil)
	rr := httptest.NewRecorder()

	handler.MakePayment(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp payment.Handle
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "pi_123", resp.ProviderTransactionID)
	assert.Equal(t, 28.00, resp.Amount)
}

func TestMakePayment_MissingUserID(t *testing.T) {
	handler := NewPaymentHandler(&fakeAuthorizer{})

	req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)
	rr := httptest.NewRecorder()

	handler.MakePayment(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMakePayment_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"empty cart", payment.ErrEmptyCart, http.StatusBadRequest},
		{"provider failure", fmt.Errorf("%w: status 402", payment.ErrProvider), http.StatusBadGateway},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuthorizer{
				authorizeFunc: func(ctx context.Context, userID string) (*payment.Handle, error) {
					return nil, tc.err
				},
			}
			handler := NewPaymentHandler(auth)

			req := httptest.NewRequest(http.MethodPost, "/api/payments?userId=u1", nil)
			rr := httptest.NewRecorder()

			handler.MakePayment(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}
