package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardapio-go/internal/middleware"
	"cardapio-go/internal/model"
	"cardapio-go/internal/store"
)

// VariationRequest is one price variation in an item payload.
type VariationRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// ItemRequest is the request body for creating or updating a menu item.
// On update a nil variations field leaves the persisted variations alone;
// a present (possibly empty) list replaces them wholesale.
type ItemRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	PriceCents  int64               `json:"price_cents"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"image_url"`
	IsPromotion bool                `json:"is_promotion"`
	IsPopular   bool                `json:"is_popular"`
	Variations  *[]VariationRequest `json:"variations,omitempty"`
}

// toModel converts the request into a model.MenuItem, sanitizing all
// admin-supplied text.
func (req *ItemRequest) toModel(id string) model.MenuItem {
	item := model.MenuItem{
		ID:          id,
		Name:        sanitizeText(req.Name),
		Description: sanitizeText(req.Description),
		PriceCents:  req.PriceCents,
		Category:    sanitizeText(req.Category),
		ImageURL:    req.ImageURL,
		IsPromotion: req.IsPromotion,
		IsPopular:   req.IsPopular,
	}

	if req.Variations != nil {
		variations := make([]model.Variation, 0, len(*req.Variations))
		for _, v := range *req.Variations {
			variations = append(variations, model.Variation{
				Ref:        model.UnsavedVariation(),
				Name:       sanitizeText(v.Name),
				PriceCents: v.PriceCents,
			})
		}
		item.Variations = variations
	}

	return item
}

// ListItems handles GET /api/v1/admin/items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list items")
		return
	}

	resp := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, itemToResponse(item))
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// GetItem handles GET /api/v1/admin/items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.items.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		WriteNotFound(w, "Item not found")
		return
	}
	if err != nil {
		WriteInternalError(w, "Failed to retrieve item")
		return
	}

	WriteSuccess(w, itemToResponse(item), nil)
}

// CreateItem handles POST /api/v1/admin/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.items.Create(r.Context(), req.toModel(""))
	if err != nil {
		writeItemError(w, err)
		return
	}

	slog.Info("menu item created",
		"item_id", item.ID,
		"item_name", item.Name,
		"user_id", middleware.GetUserID(r),
	)
	WriteCreated(w, itemToResponse(item))
}

// UpdateItem handles PUT /api/v1/admin/items/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.items.Update(r.Context(), req.toModel(id))
	if err != nil {
		writeItemError(w, err)
		return
	}

	slog.Info("menu item updated",
		"item_id", item.ID,
		"item_name", item.Name,
		"user_id", middleware.GetUserID(r),
	)
	WriteSuccess(w, itemToResponse(item), nil)
}

// DeleteItem handles DELETE /api/v1/admin/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.items.Delete(r.Context(), id); err != nil {
		writeItemError(w, err)
		return
	}

	slog.Info("menu item deleted",
		"item_id", id,
		"user_id", middleware.GetUserID(r),
	)
	w.WriteHeader(http.StatusNoContent)
}

// writeItemError maps item store errors to API responses.
func writeItemError(w http.ResponseWriter, err error) {
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &validationErr):
		WriteValidationError(w, validationErr.Fields)
	case errors.Is(err, store.ErrNotFound):
		WriteNotFound(w, "Item not found")
	default:
		WriteInternalError(w, "Item operation failed")
	}
}
