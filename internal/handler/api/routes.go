package api

import (
	"github.com/go-chi/chi/v5"

	"cardapio-go/internal/middleware"
)

// Routes mounts the full API surface on a new chi router:
//
//	GET  /api/v1/status
//	GET  /api/v1/menu
//	GET  /api/v1/menu/items
//	GET  /api/v1/menu/categories
//	POST /api/v1/auth/login
//	POST /api/v1/auth/logout
//	GET  /api/v1/auth/session
//	...  /api/v1/admin/*  (session + admin role required)
//
// Session state is loaded for every route so the public menu and the
// session probe see the logged-in user when one exists.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.sessions.LoadAndSave)

	// Public endpoints, no authentication required.
	r.Get("/status", h.Status)
	r.Get("/menu", h.GetMenu)
	r.Get("/menu/items", h.ListMenuItems)
	r.Get("/menu/categories", h.ListMenuCategories)

	// Auth endpoints. Login is additionally throttled per IP and per
	// account by the login protection middleware.
	r.Route("/auth", func(r chi.Router) {
		r.With(h.login.Middleware()).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(middleware.OptionalLoadUser(h.sessions, h.db)).Get("/session", h.Session)
	})

	// Admin endpoints: authenticated session with the admin role.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.sessions))
		r.Use(middleware.LoadUser(h.sessions, h.db))
		r.Use(middleware.RequireAdmin())

		r.Get("/items", h.ListItems)
		r.Post("/items", h.CreateItem)
		r.Get("/items/{id}", h.GetItem)
		r.Put("/items/{id}", h.UpdateItem)
		r.Delete("/items/{id}", h.DeleteItem)
		r.Post("/items/{id}/image", h.UploadItemImage)

		r.Get("/events", h.ListEvents)

		r.Post("/categories/save", h.SaveCategories)
		r.Post("/categories/rename", h.RenameCategory)
		r.Post("/categories/delete", h.DeleteCategory)
	})

	return r
}
