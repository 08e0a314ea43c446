package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clubhouse/messageboard/internal/domain/user"
	"github.com/clubhouse/messageboard/internal/session"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	entries map[string]string
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]string)}
}

func (s *fakeStore) Get(ctx context.Context, id string) (string, error) {
	userID, ok := s.entries[id]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return userID, nil
}

func (s *fakeStore) Put(ctx context.Context, id, userID string) error {
	s.entries[id] = userID
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	delete(s.entries, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeUsers struct {
	byID map[string]user.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, context.Canceled // any error means not resolvable
	}
	return u, nil
}

func testManager(store *fakeStore, users *fakeUsers) *session.Manager {
	return session.NewManager(store, users, "test-secret-key", 24*time.Hour, false)
}

// Drives a full login on one request, then replays the issued cookie on a
// second request through Resolve.
func loginThenResolve(t *testing.T, m *session.Manager, userID string, mutateCookie func(*http.Cookie)) (user.User, bool) {
	t.Helper()

	r := gin.New()

	r.GET("/do_login", func(c *gin.Context) {
		if err := m.LogIn(c, userID); err != nil {
			t.Fatalf("LogIn failed: %v", err)
		}
		c.Status(http.StatusOK)
	})

	var resolved user.User
	var authenticated bool

	r.GET("/whoami", m.Resolve(), func(c *gin.Context) {
		resolved, authenticated = session.CurrentUser(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/do_login", nil)
	r.ServeHTTP(w, req)

	cookies := w.Result().Cookies()

	if len(cookies) == 0 {
		t.Fatal("login issued no cookie")
	}

	cookie := cookies[0]

	if mutateCookie != nil {
		mutateCookie(cookie)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req2.AddCookie(cookie)
	r.ServeHTTP(w2, req2)

	return resolved, authenticated
}

func TestResolveAuthenticatedSession(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[string]user.User{
		"u1": {ID: "u1", Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"},
	}}

	u, ok := loginThenResolve(t, testManager(store, users), "u1", nil)

	if !ok {
		t.Fatal("expected an authenticated session")
	}

	if u.ID != "u1" || u.DisplayName() != "Ann Lee" {
		t.Errorf("resolved wrong user: %+v", u)
	}
}

func TestResolveTamperedCookieIsAnonymous(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[string]user.User{"u1": {ID: "u1"}}}

	_, ok := loginThenResolve(t, testManager(store, users), "u1", func(c *http.Cookie) {
		c.Value = c.Value + "00"
	})

	if ok {
		t.Error("tampered cookie resolved to an authenticated session")
	}
}

func TestResolveExpiredSessionIsAnonymous(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[string]user.User{"u1": {ID: "u1"}}}
	m := testManager(store, users)

	_, ok := loginThenResolve(t, m, "u1", func(c *http.Cookie) {
		// simulate store-side expiry between requests
		store.entries = map[string]string{}
	})

	if ok {
		t.Error("expired session resolved to an authenticated session")
	}
}

func TestResolveDeletedUserIsAnonymous(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[string]user.User{}}

	_, ok := loginThenResolve(t, testManager(store, users), "ghost", nil)

	if ok {
		t.Error("session bound to a deleted user resolved as authenticated")
	}
}

func TestLogOutDestroysStoreEntry(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[string]user.User{"u1": {ID: "u1"}}}
	m := testManager(store, users)

	r := gin.New()
	r.GET("/do_login", func(c *gin.Context) {
		if err := m.LogIn(c, "u1"); err != nil {
			t.Fatalf("LogIn failed: %v", err)
		}
		c.Status(http.StatusOK)
	})
	r.GET("/do_logout", func(c *gin.Context) {
		if err := m.LogOut(c); err != nil {
			t.Fatalf("LogOut failed: %v", err)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/do_login", nil))

	cookie := w.Result().Cookies()[0]

	if len(store.entries) != 1 {
		t.Fatalf("expected one session entry, got %d", len(store.entries))
	}

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/do_logout", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w2, req)

	if len(store.entries) != 0 {
		t.Error("logout left the session entry in the store")
	}

	if len(store.deleted) != 1 {
		t.Errorf("expected exactly one delete, got %d", len(store.deleted))
	}

	// logout must also clear the client cookie
	cleared := false
	for _, c := range w2.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the session cookie")
	}
}

func TestLogOutWithoutSessionIsNoop(t *testing.T) {
	store := newFakeStore()
	m := testManager(store, &fakeUsers{byID: map[string]user.User{}})

	r := gin.New()
	r.GET("/do_logout", func(c *gin.Context) {
		if err := m.LogOut(c); err != nil {
			t.Fatalf("LogOut failed: %v", err)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/do_logout", nil))

	if w.Code != http.StatusOK {
		t.Errorf("got status %d", w.Code)
	}
}
