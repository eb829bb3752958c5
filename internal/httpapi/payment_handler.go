package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vincentmpho/food-service-go/internal/payment"
)

type Authorizer interface {
	Authorize(ctx context.Context, userID string) (*payment.Handle, error)
}

type PaymentHandler struct {
	payments Authorizer
}

func NewPaymentHandler(payments Authorizer) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// MakePayment authorizes the cart's current total and returns the provider
// handle so the client can continue the payment flow.
func (h *PaymentHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	handle, err := h.payments.Authorize(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "shopping cart is empty or does not exist")
		case errors.Is(err, payment.ErrProvider):
			writeError(w, http.StatusBadGateway, "payment authorization failed")
		default:
			writeError(w, http.StatusInternalServerError, "failed to authorize payment")
		}
		return
	}

	writeJSON(w, http.StatusOK, handle)
}
