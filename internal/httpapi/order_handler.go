package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sirupsen/logrus"

	"github.com/vincentmpho/food-service-go/internal/events"
	"github.com/vincentmpho/food-service-go/internal/order"
)

type OrderHandler struct {
	orders order.Repository
	events events.Publisher
}

func NewOrderHandler(orders order.Repository, publisher events.Publisher) *OrderHandler {
	return &OrderHandler{orders: orders, events: publisher}
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

// ListOrders returns orders newest-first; with ?userId= only that user's.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.List(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrder applies a partial patch. Status values are written without
// transition validation.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid orderId")
		return
	}

	var patch order.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var oldStatus order.Status
	if patch.Status != "" {
		existing, err := h.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				writeError(w, http.StatusNotFound, "order not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load order")
			return
		}
		oldStatus = existing.Status
	}

	o, err := h.orders.Update(ctx, orderID, patch)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrIDMismatch):
			writeError(w, http.StatusBadRequest, "order id in body does not match path")
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	if patch.Status != "" && patch.Status != oldStatus {
		if err := h.events.PublishOrderStatusChanged(ctx, o, oldStatus); err != nil {
			logrus.WithError(err).WithField("order_id", o.ID).Warn("failed to publish status change event")
		}
	}

	writeJSON(w, http.StatusOK, o)
}
