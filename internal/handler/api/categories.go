package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"cardapio-go/internal/category"
	"cardapio-go/internal/middleware"
)

// SaveCategoriesRequest carries a finished client-side editing session:
// the snapshot the client started from and the list it ended with.
type SaveCategoriesRequest struct {
	Original []string `json:"original"`
	Working  []string `json:"working"`
}

// RenameCategoryRequest renames one category across all its items.
type RenameCategoryRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// DeleteCategoryRequest removes one empty category.
type DeleteCategoryRequest struct {
	Name string `json:"name"`
}

// SaveCategories handles POST /api/v1/admin/categories/save.
// Applies the reconciliation in one shot: placeholders for additions,
// cascade deletes for removals, and the ordered rewrite when the
// sequence changed. A partial failure returns 502 and the client must
// re-fetch before editing again.
func (h *Handler) SaveCategories(w http.ResponseWriter, r *http.Request) {
	var req SaveCategoriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Reject bad working entries up front: once Save starts applying
	// changes a bad name would surface as a misleading partial-save error.
	working := make([]string, 0, len(req.Working))
	seen := make(map[string]bool, len(req.Working))
	for _, name := range req.Working {
		clean := sanitizeText(name)
		if clean == "" {
			WriteValidationError(w, map[string]string{"working": "contains an empty category name"})
			return
		}
		if seen[clean] {
			WriteValidationError(w, map[string]string{"working": fmt.Sprintf("duplicate category %q", clean)})
			return
		}
		seen[clean] = true
		working = append(working, clean)
	}

	sess := category.ResumeSession(h.items, req.Original, working)
	if err := sess.Save(r.Context()); err != nil {
		writeCategoryError(w, err)
		return
	}

	slog.Info("menu categories saved",
		"count", len(working),
		"user_id", middleware.GetUserID(r),
	)
	WriteSuccess(w, sess.Working(), nil)
}

// RenameCategory handles POST /api/v1/admin/categories/rename.
// The rename persists immediately across every item in the category.
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req RenameCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categories, err := h.items.Categories(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to load categories")
		return
	}

	index := slices.Index(categories, req.OldName)
	if index < 0 {
		WriteNotFound(w, "Category not found")
		return
	}

	sess := category.NewSession(h.items, categories)
	if err := sess.Rename(r.Context(), index, sanitizeText(req.NewName)); err != nil {
		writeCategoryError(w, err)
		return
	}

	slog.Info("menu category renamed",
		"old_name", req.OldName,
		"new_name", req.NewName,
		"user_id", middleware.GetUserID(r),
	)
	WriteSuccess(w, sess.Working(), nil)
}

// DeleteCategory handles POST /api/v1/admin/categories/delete.
// Categories exist only through their items, so every listed category
// holds at least one item (possibly just its placeholder) and the
// request always resolves to a 409 with the blocking count, or a 404
// once the last item is gone and the category with it. The endpoint's
// job is to report that count so the client can delete the items first.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req DeleteCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categories, err := h.items.Categories(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to load categories")
		return
	}

	index := slices.Index(categories, req.Name)
	if index < 0 {
		WriteNotFound(w, "Category not found")
		return
	}

	sess := category.NewSession(h.items, categories)
	if err := sess.RequestDelete(index); err != nil {
		writeCategoryError(w, err)
		return
	}
	if err := sess.ConfirmDelete(r.Context()); err != nil {
		writeCategoryError(w, err)
		return
	}

	// The working list no longer holds the category; persist the removal.
	if err := sess.Save(r.Context()); err != nil {
		writeCategoryError(w, err)
		return
	}

	slog.Info("menu category deleted",
		"category", req.Name,
		"user_id", middleware.GetUserID(r),
	)
	WriteSuccess(w, sess.Working(), nil)
}

// writeCategoryError maps category engine errors to API responses.
func writeCategoryError(w http.ResponseWriter, err error) {
	var notEmpty *category.NotEmptyError
	switch {
	case errors.As(err, &notEmpty):
		WriteConflict(w, "Category still has items", map[string]string{
			"category": notEmpty.Name,
			"count":    fmt.Sprintf("%d", notEmpty.Count),
		})
	case errors.Is(err, category.ErrEmptyName):
		WriteValidationError(w, map[string]string{"name": "required"})
	case errors.Is(err, category.ErrDuplicateName):
		WriteValidationError(w, map[string]string{"name": "already exists"})
	case errors.Is(err, category.ErrCapacityExceeded):
		WriteValidationError(w, map[string]string{"categories": "too many categories"})
	case errors.Is(err, category.ErrIndexRange):
		WriteBadRequest(w, "Category index out of range", nil)
	case errors.Is(err, category.ErrPartialSave):
		WriteError(w, http.StatusBadGateway, "partial_save",
			"Save partially applied; re-fetch the menu before editing again", nil)
	default:
		WriteInternalError(w, "Category operation failed")
	}
}
