// Package session configures the server-side session backing admin mode.
// Sessions live in the sessions table next to the menu data, so a single
// SQLite file carries the whole application state.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// CookieName identifies the admin session cookie.
const CookieName = "cardapio_session"

// Lifetime keeps an admin logged in across a full service day; the token
// is rotated on login regardless.
const Lifetime = 24 * time.Hour

// New creates the session manager over the given database. The cookie is
// HttpOnly and SameSite=Lax; Secure is dropped only in development so the
// login flow works over plain http on localhost.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}
