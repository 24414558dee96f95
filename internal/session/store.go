// ABOUTME: File-backed credential store for admin and customer sessions
// ABOUTME: Persists token and user identity, notifies subscribers on change

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type identifies the principal kind a session belongs to.
type Type string

const (
	TypeAdmin    Type = "admin"
	TypeCustomer Type = "customer"
)

// Session is the persisted authentication state. At most one session
// exists at a time: storing an admin session discards any customer
// session and vice versa.
type Session struct {
	Type    Type           `json:"type"`
	Token   string         `json:"token"`
	User    map[string]any `json:"user,omitempty"`
	SavedAt time.Time      `json:"saved_at"`
}

// ExpiresAt reports the token's exp claim, if the stored token is a
// JWT carrying one. The signature is not verified; the backend owns
// that. Used only to warn before making a doomed request.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Username returns the user record's username field when present.
func (s *Session) Username() string {
	if s == nil || s.User == nil {
		return ""
	}
	if v, ok := s.User["username"].(string); ok {
		return v
	}
	return ""
}

const (
	sessionFile = "session.json"
	cookieFile  = "cookies.json"

	// Matches the 7-day cookie the web console set for page navigation.
	cookieTTL = 7 * 24 * time.Hour
)

// storedCookie mirrors the access_token cookie so non-API surfaces of
// the backend can authenticate full navigations.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// Store reads and writes the session state under a home directory.
// Mutations happen only through Set and Clear; every mutation is
// persisted before subscribers run.
type Store struct {
	mu      sync.Mutex
	dir     string
	current *Session
	subs    []func(*Session)
	lastMod time.Time
}

// Open initializes a store under dir, creating it if needed and
// loading any previously persisted session.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	s := &Store{dir: dir}
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns a copy of the active session, or nil when logged out.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.current)
}

// Token returns the active token, or "" when no session is stored.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Set stores a new session, replacing whatever was there. The replaced
// session may be of the other principal type; there is never more than
// one stored principal.
func (s *Store) Set(sess Session) error {
	if sess.Type != TypeAdmin && sess.Type != TypeCustomer {
		return fmt.Errorf("unknown session type %q", sess.Type)
	}
	if sess.Token == "" {
		return errors.New("session token must not be empty")
	}
	sess.SavedAt = time.Now().UTC()

	s.mu.Lock()
	s.current = &sess
	err := s.persistLocked()
	subs, snapshot := s.subs, cloneSession(s.current)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	notify(subs, snapshot)
	return nil
}

// Clear removes the stored session and cookie mirror. Clearing an
// already-empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	err := s.persistLocked()
	subs := s.subs
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if had {
		notify(subs, nil)
	}
	return nil
}

// Subscribe registers fn to run after every session mutation. fn
// receives the new session, or nil when the session was cleared.
func (s *Store) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Cookies returns the mirrored cookies applicable to u, for seeding an
// http.CookieJar so cookie-authenticated endpoints work alongside
// bearer auth.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, cookieFile))
	if err != nil {
		return nil
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil
	}
	var cookies []*http.Cookie
	for _, c := range stored {
		if time.Now().After(c.Expires) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    "/",
			Expires: c.Expires,
		})
	}
	return cookies
}

// Watch polls the session file so changes made by another process
// (another terminal logging out, for instance) are observed. Blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reloadIfChanged()
		}
	}
}

func (s *Store) reloadIfChanged() {
	s.mu.Lock()
	info, err := os.Stat(filepath.Join(s.dir, sessionFile))
	var mod time.Time
	if err == nil {
		mod = info.ModTime()
	}
	if mod.Equal(s.lastMod) {
		s.mu.Unlock()
		return
	}
	if err := s.loadLocked(); err != nil {
		s.mu.Unlock()
		return
	}
	subs, snapshot := s.subs, cloneSession(s.current)
	s.mu.Unlock()
	notify(subs, snapshot)
}

func (s *Store) loadLocked() error {
	path := filepath.Join(s.dir, sessionFile)
	info, err := os.Stat(path)
	if err != nil {
		s.current = nil
		s.lastMod = time.Time{}
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt state is treated as logged out rather than fatal.
		s.current = nil
		s.lastMod = info.ModTime()
		return nil
	}
	s.current = &sess
	s.lastMod = info.ModTime()
	return nil
}

func (s *Store) persistLocked() error {
	sessionPath := filepath.Join(s.dir, sessionFile)
	cookiePath := filepath.Join(s.dir, cookieFile)

	if s.current == nil {
		if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		if err := os.Remove(cookiePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cookie file: %w", err)
		}
		s.lastMod = time.Time{}
		return nil
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := writeFileAtomic(sessionPath, data); err != nil {
		return err
	}

	cookies := []storedCookie{{
		Name:    "access_token",
		Value:   s.current.Token,
		Expires: time.Now().Add(cookieTTL),
	}}
	cdata, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}
	if err := writeFileAtomic(cookiePath, cdata); err != nil {
		return err
	}

	if info, err := os.Stat(sessionPath); err == nil {
		s.lastMod = info.ModTime()
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so a watcher in
// another process never observes a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func cloneSession(s *Session) *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		out.User = make(map[string]any, len(s.User))
		for k, v := range s.User {
			out.User[k] = v
		}
	}
	return &out
}

func notify(subs []func(*Session), sess *Session) {
	for _, fn := range subs {
		fn(cloneSession(sess))
	}
}
