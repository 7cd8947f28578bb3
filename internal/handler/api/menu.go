package api

import (
	"net/http"

	"cardapio-go/internal/model"
	"cardapio-go/internal/util"
)

// VariationResponse represents a price variation in API responses.
type VariationResponse struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	PriceDisplay string `json:"price_display"`
}

// MenuItemResponse represents a menu item in API responses, with prices
// formatted for display alongside the raw centavo values.
type MenuItemResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	PriceCents   int64               `json:"price_cents"`
	PriceDisplay string              `json:"price_display"`
	Category     string              `json:"category"`
	ImageURL     string              `json:"image_url,omitempty"`
	IsPromotion  bool                `json:"is_promotion"`
	IsPopular    bool                `json:"is_popular"`
	Variations   []VariationResponse `json:"variations,omitempty"`
}

// MenuSectionResponse is one category with its items, in menu order.
type MenuSectionResponse struct {
	Category string             `json:"category"`
	Items    []MenuItemResponse `json:"items"`
}

// itemToResponse converts a model.MenuItem to its API representation.
func itemToResponse(item model.MenuItem) MenuItemResponse {
	resp := MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		PriceCents:  item.PriceCents,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		IsPromotion: item.IsPromotion,
		IsPopular:   item.IsPopular,
	}

	minPrice, maxPrice := item.PriceRange()
	resp.PriceDisplay = util.FormatPriceRangeBRL(minPrice, maxPrice)

	for _, v := range item.Variations {
		vr := VariationResponse{
			Name:         v.Name,
			PriceCents:   v.PriceCents,
			PriceDisplay: util.FormatPriceBRL(v.PriceCents),
		}
		if id, ok := v.Ref.ID(); ok {
			vr.ID = id
		}
		resp.Variations = append(resp.Variations, vr)
	}

	return resp
}

// GetMenu handles GET /api/v1/menu.
// Returns all items grouped into sections, categories in their stored
// order.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.items.Categories(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to load menu")
		return
	}

	items, err := h.items.List(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to load menu")
		return
	}

	byCategory := make(map[string][]MenuItemResponse, len(categories))
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], itemToResponse(item))
	}

	sections := make([]MenuSectionResponse, 0, len(categories))
	for _, name := range categories {
		sections = append(sections, MenuSectionResponse{
			Category: name,
			Items:    byCategory[name],
		})
	}

	WriteSuccess(w, sections, &Meta{Total: int64(len(items))})
}

// ListMenuItems handles GET /api/v1/menu/items, optionally filtered by
// the category query parameter.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var items []model.MenuItem
	var err error
	if name := r.URL.Query().Get("category"); name != "" {
		items, err = h.items.ListByCategory(ctx, name)
	} else {
		items, err = h.items.List(ctx)
	}
	if err != nil {
		WriteInternalError(w, "Failed to list menu items")
		return
	}

	resp := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, itemToResponse(item))
	}

	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// ListMenuCategories handles GET /api/v1/menu/categories.
func (h *Handler) ListMenuCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.items.Categories(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	WriteSuccess(w, categories, &Meta{Total: int64(len(categories))})
}
