// ABOUTME: Tests for the file-backed credential store
// ABOUTME: Covers persistence, single-principal replacement, notifications and expiry

package session

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

func TestStore_EmptyOnFirstOpen(t *testing.T) {
	store := openStore(t, t.TempDir())
	if store.Current() != nil {
		t.Error("expected no session in a fresh store")
	}
	if store.Token() != "" {
		t.Error("expected empty token in a fresh store")
	}
}

func TestStore_SetAndReload(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	err := store.Set(Session{
		Type:  TypeAdmin,
		Token: "tok-1",
		User:  map[string]any{"username": "alice"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second store over the same dir sees the persisted session.
	reopened := openStore(t, dir)
	sess := reopened.Current()
	if sess == nil {
		t.Fatal("expected persisted session after reopen")
	}
	if sess.Type != TypeAdmin || sess.Token != "tok-1" {
		t.Errorf("unexpected session %+v", sess)
	}
	if sess.Username() != "alice" {
		t.Errorf("expected username alice, got %q", sess.Username())
	}
}

func TestStore_SetReplacesOtherPrincipalType(t *testing.T) {
	store := openStore(t, t.TempDir())

	if err := store.Set(Session{Type: TypeCustomer, Token: "cust-tok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(Session{Type: TypeAdmin, Token: "admin-tok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess := store.Current()
	if sess.Type != TypeAdmin {
		t.Errorf("expected admin session to displace customer, got %s", sess.Type)
	}
	if sess.Token != "admin-tok" {
		t.Errorf("expected admin token, got %s", sess.Token)
	}
}

func TestStore_SetRejectsInvalid(t *testing.T) {
	store := openStore(t, t.TempDir())
	if err := store.Set(Session{Type: "robot", Token: "x"}); err == nil {
		t.Error("expected error for unknown session type")
	}
	if err := store.Set(Session{Type: TypeAdmin}); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestStore_ClearRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	store.Set(Session{Type: TypeAdmin, Token: "tok"})

	if err := store.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Current() != nil {
		t.Error("expected no session after clear")
	}
	for _, name := range []string{sessionFile, cookieFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", name)
		}
	}
	// Clearing twice is a no-op.
	if err := store.Clear(); err != nil {
		t.Errorf("second clear should be a no-op, got %v", err)
	}
}

func TestStore_SubscribeNotified(t *testing.T) {
	store := openStore(t, t.TempDir())

	var got []*Session
	store.Subscribe(func(s *Session) { got = append(got, s) })

	store.Set(Session{Type: TypeAdmin, Token: "tok"})
	store.Clear()

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0] == nil || got[0].Token != "tok" {
		t.Errorf("expected first notification to carry the session, got %+v", got[0])
	}
	if got[1] != nil {
		t.Errorf("expected nil notification on clear, got %+v", got[1])
	}
}

func TestStore_SubscriberGetsCopy(t *testing.T) {
	store := openStore(t, t.TempDir())

	var seen *Session
	store.Subscribe(func(s *Session) { seen = s })
	store.Set(Session{Type: TypeAdmin, Token: "tok", User: map[string]any{"username": "a"}})

	seen.User["username"] = "mallory"
	if store.Current().Username() != "a" {
		t.Error("subscriber mutation must not leak into the store")
	}
}

func TestStore_CookiesMirrorToken(t *testing.T) {
	store := openStore(t, t.TempDir())
	store.Set(Session{Type: TypeAdmin, Token: "tok-7"})

	u, _ := url.Parse("http://localhost:8080")
	cookies := store.Cookies(u)
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Name != "access_token" || cookies[0].Value != "tok-7" {
		t.Errorf("unexpected cookie %+v", cookies[0])
	}
	if !cookies[0].Expires.After(time.Now().Add(6 * 24 * time.Hour)) {
		t.Error("expected roughly 7-day cookie expiry")
	}
}

func TestStore_CorruptSessionFileTreatedAsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, sessionFile), []byte("not json"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	store := openStore(t, dir)
	if store.Current() != nil {
		t.Error("corrupt state should read as logged out")
	}
}

func TestSession_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	sess := &Session{Type: TypeAdmin, Token: token}
	got, ok := sess.ExpiresAt()
	if !ok {
		t.Fatal("expected expiry to parse")
	}
	if !got.Equal(exp) {
		t.Errorf("expected %v, got %v", exp, got)
	}
}

func TestSession_ExpiresAt_NonJWT(t *testing.T) {
	sess := &Session{Type: TypeAdmin, Token: "opaque-token"}
	if _, ok := sess.ExpiresAt(); ok {
		t.Error("opaque tokens have no known expiry")
	}
}

func TestSession_ExpiresAt_NoExpClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	sess := &Session{Type: TypeAdmin, Token: token}
	if _, ok := sess.ExpiresAt(); ok {
		t.Error("token without exp claim has no known expiry")
	}
}

func TestStore_ReloadIfChanged_SeesExternalMutations(t *testing.T) {
	dir := t.TempDir()
	writer := openStore(t, dir)
	watcher := openStore(t, dir)

	var notified []*Session
	watcher.Subscribe(func(s *Session) { notified = append(notified, s) })

	// Unchanged directory is a no-op.
	watcher.reloadIfChanged()
	if len(notified) != 0 {
		t.Fatalf("expected no notification before any change, got %d", len(notified))
	}

	err := writer.Set(Session{Type: TypeAdmin, Token: "tok-1", User: map[string]any{"username": "alice"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	watcher.reloadIfChanged()
	if len(notified) != 1 || notified[0] == nil || notified[0].Token != "tok-1" {
		t.Fatalf("expected login notification, got %+v", notified)
	}
	if sess := watcher.Current(); sess == nil || sess.Username() != "alice" {
		t.Errorf("expected reloaded session, got %+v", sess)
	}

	// A second poll without further changes stays quiet.
	watcher.reloadIfChanged()
	if len(notified) != 1 {
		t.Fatalf("expected no duplicate notification, got %d", len(notified))
	}

	if err := writer.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	watcher.reloadIfChanged()
	if len(notified) != 2 || notified[1] != nil {
		t.Fatalf("expected logout notification, got %+v", notified)
	}
	if watcher.Current() != nil {
		t.Error("expected watcher logged out after external clear")
	}
}

func TestStore_Watch_NotifiesOnExternalLogout(t *testing.T) {
	dir := t.TempDir()
	writer := openStore(t, dir)
	watcher := openStore(t, dir)

	changes := make(chan *Session, 4)
	watcher.Subscribe(func(s *Session) { changes <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Watch(ctx, 5*time.Millisecond)

	err := writer.Set(Session{Type: TypeAdmin, Token: "tok-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case sess := <-changes:
		if sess == nil || sess.Token != "tok-1" {
			t.Fatalf("expected login to be observed, got %+v", sess)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the watcher to observe the login")
	}

	if err := writer.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case sess := <-changes:
		if sess != nil {
			t.Fatalf("expected logout to be observed, got %+v", sess)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the watcher to observe the logout")
	}
}
