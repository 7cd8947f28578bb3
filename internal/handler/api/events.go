package api

import (
	"net/http"
	"strconv"
	"time"
)

// Event listing limits for GET /api/v1/admin/events.
const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// EventResponse is one audit log entry in API responses.
type EventResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListEvents handles GET /api/v1/admin/events, newest first. The limit
// query parameter caps the page size.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultEventLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			WriteBadRequest(w, "Invalid limit", nil)
			return
		}
		if parsed > maxEventLimit {
			parsed = maxEventLimit
		}
		limit = parsed
	}

	events, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for _, e := range events {
		er := EventResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
		if e.UserID.Valid {
			id := e.UserID.Int64
			er.UserID = &id
		}
		resp = append(resp, er)
	}

	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}
