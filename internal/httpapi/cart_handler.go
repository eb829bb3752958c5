package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vincentmpho/food-service-go/internal/cart"
)

type CartHandler struct {
	carts cart.Repository
}

func NewCartHandler(carts cart.Repository) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart returns the cart with a read-time total. A missing cart is a
// normal 404, not a server error.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shopping cart not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// ApplyDelta adds or removes quantity on a single cart line.
func (h *CartHandler) ApplyDelta(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}
	menuItemID, err := strconv.ParseInt(r.URL.Query().Get("menuItemId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menuItemId")
		return
	}
	delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delta")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.ApplyDelta(ctx, userID, menuItemID, delta)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrMenuItemNotFound):
			writeError(w, http.StatusNotFound, "menu item not found")
		case errors.Is(err, cart.ErrInvalidDelta):
			writeError(w, http.StatusBadRequest, "nothing to decrement")
		case errors.Is(err, cart.ErrConflict):
			writeError(w, http.StatusConflict, "cart was modified concurrently, retry")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update cart")
		}
		return
	}

	if c == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "item removed, shopping cart deleted"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ClearCart removes the cart outright. Checkout does not do this implicitly.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.Clear(ctx, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
