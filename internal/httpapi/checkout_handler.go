package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vincentmpho/food-service-go/internal/checkout"
	"github.com/vincentmpho/food-service-go/internal/order"
	"github.com/vincentmpho/food-service-go/internal/payment"
)

type Checkouter interface {
	Checkout(ctx context.Context, userID string, info checkout.ContactInfo) (*order.Order, error)
}

type CheckoutHandler struct {
	coordinator Checkouter
}

func NewCheckoutHandler(coordinator Checkouter) *CheckoutHandler {
	return &CheckoutHandler{coordinator: coordinator}
}

type checkoutRequest struct {
	UserID      string `json:"userId"`
	PickupName  string `json:"pickupName"`
	PickupPhone string `json:"pickupPhone"`
	PickupEmail string `json:"pickupEmail"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	o, err := h.coordinator.Checkout(ctx, req.UserID, checkout.ContactInfo{
		Name:  req.PickupName,
		Phone: req.PickupPhone,
		Email: req.PickupEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "shopping cart is empty or does not exist")
		case errors.Is(err, order.ErrInvalidOrder):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, payment.ErrProvider):
			writeError(w, http.StatusBadGateway, "payment authorization failed")
		default:
			writeError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}
