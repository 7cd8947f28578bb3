package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardapio-go/internal/middleware"
	"cardapio-go/internal/model"
	"cardapio-go/internal/storage"
	"cardapio-go/internal/store"
)

// UploadItemImage handles POST /api/v1/admin/items/{id}/image.
// Accepts a multipart form with a "file" field, processes the image
// (EXIF orientation, re-encode, variants) and points the item at the
// stored original's public URL.
func (h *Handler) UploadItemImage(w http.ResponseWriter, r *http.Request) {
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

	// An oversized body fails at read time rather than buffering fully.
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxUploadSize+4096)
	if err := r.ParseMultipartForm(model.MaxUploadSize); err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "File exceeds the 2MB upload limit", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteInternalError(w, "Failed to read upload")
		return
	}

	mimeType := h.processor.DetectMimeType(data)
	if err := h.bucket.Validate(int64(len(data)), mimeType); err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "File exceeds the 2MB upload limit", nil)
		case errors.Is(err, storage.ErrUnsupportedType):
			WriteValidationError(w, map[string]string{"file": "unsupported image type"})
		default:
			WriteInternalError(w, "Upload failed")
		}
		return
	}

	objectID, objectName := h.bucket.ObjectName(header.Filename)

	result, err := h.processor.ProcessImage(bytes.NewReader(data), objectID, objectName)
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "could not decode image"})
		return
	}

	if _, err := h.processor.CreateAllVariants(result.FilePath, objectID, objectName); err != nil {
		// Variants are a rendering optimization; the original is stored.
		slog.Warn("failed to create image variants", "item_id", id, "error", err)
	}

	publicURL, err := h.bucket.PublicURL(result.FilePath)
	if err != nil {
		WriteInternalError(w, "Upload failed")
		return
	}

	item.ImageURL = publicURL
	item.Variations = nil // leave persisted variations alone
	updated, err := h.items.Update(r.Context(), item)
	if err != nil {
		writeItemError(w, err)
		return
	}

	slog.Info("menu item image uploaded",
		"item_id", id,
		"size", result.Size,
		"mime_type", result.MimeType,
		"user_id", middleware.GetUserID(r),
	)
	WriteSuccess(w, itemToResponse(updated), nil)
}
