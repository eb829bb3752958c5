package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/vincentmpho/food-service-go/internal/menu"
)

type MenuHandler struct {
	catalog menu.Repository
}

func NewMenuHandler(catalog menu.Repository) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.catalog.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	if items == nil {
		items = []menu.Item{}
	}

	writeJSON(w, http.StatusOK, items)
}
