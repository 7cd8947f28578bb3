package session

import (
	"net/http"
	"testing"
	"time"

	"cardapio-go/internal/testutil"
)

func TestNewConfiguresCookie(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, false)

	if sm.Cookie.Name != CookieName {
		t.Errorf("cookie name = %q, want %q", sm.Cookie.Name, CookieName)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("cookie not HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
	if sm.Lifetime != 24*time.Hour {
		t.Errorf("lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.Secure {
		t.Error("production session cookie must be Secure")
	}
}

func TestNewDevelopmentDropsSecure(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, true)
	if sm.Cookie.Secure {
		t.Error("development session cookie must not require https")
	}
}
