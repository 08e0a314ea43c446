package session

import (
	"context"
	"net/http"
	"time"

	"github.com/clubhouse/messageboard/internal/domain/user"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CookieName = "board_session"

const ctxUserKey = "session.user"

// Keep this small interface so tests can fake it easily.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Manager owns the cookie <-> store <-> user plumbing. Per request it resolves
// at most one identity; everything that can go wrong (missing cookie, bad
// signature, expired session, deleted user) degrades to anonymous.
type Manager struct {
	store  Store
	users  UserResolver
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, users UserResolver, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Resolve runs before every request and stashes the current user on the gin
// context when the session checks out.
func (m *Manager) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)

		if err != nil || raw == "" {
			c.Next()
			return
		}

		id, ok := parseCookie(m.secret, raw)

		if !ok {
			c.Next()
			return
		}

		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		userID, err := m.store.Get(cctx, id)

		if err != nil {
			c.Next()
			return
		}

		u, err := m.users.GetByID(cctx, userID)

		if err != nil {
			// user deleted since login; the session binding is stale
			c.Next()
			return
		}

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// LogIn binds a fresh session id to the user and sets the signed cookie. A new
// id is generated on every login so an id handed out while anonymous never
// becomes authenticated (session fixation).
func (m *Manager) LogIn(c *gin.Context, userID string) error {
	id := uuid.NewString()

	cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	err := m.store.Put(cctx, id, userID)

	if err != nil {
		return err
	}

	m.setCookie(c, signCookie(m.secret, id), int(m.ttl.Seconds()))

	return nil
}

// LogOut destroys the store entry and clears the cookie. Always transitions to
// anonymous, even when there was no session to begin with.
func (m *Manager) LogOut(c *gin.Context) error {
	raw, err := c.Cookie(CookieName)

	if err == nil && raw != "" {
		if id, ok := parseCookie(m.secret, raw); ok {
			cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if delErr := m.store.Delete(cctx, id); delErr != nil {
				m.setCookie(c, "", -1)
				return delErr
			}
		}
	}

	m.setCookie(c, "", -1)

	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)

	c.SetCookie(
		CookieName,
		value,
		maxAge,
		"/",
		"",
		m.secure,
		true, // HttpOnly.
	)
}

// Helpers so handlers don't need to know the magic context key.

func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentUser(c)
	return ok
}

// SetCurrentUser exists for handler tests that need an authenticated context
// without running the full middleware chain.
func SetCurrentUser(c *gin.Context, u user.User) {
	c.Set(ctxUserKey, u)
}
