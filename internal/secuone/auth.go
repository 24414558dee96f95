// ABOUTME: Authentication operations for admin and customer principals
// ABOUTME: Login stores the session; logout and password change clear it

package secuone

import (
	"context"
	"fmt"
	"net/http"

	"github.com/polarisoffice/secuone-console/internal/api"
	"github.com/polarisoffice/secuone-console/internal/session"
)

// Auth handles the fixed-path auth endpoints. These are not resolved:
// the login surface has always lived at one place per principal type.
type Auth struct {
	transport *api.Transport
	store     *session.Store
}

// LoginResult is what the backend returns on a successful login.
type LoginResult struct {
	Type  string         `json:"type"`
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

// AdminLogin authenticates an admin and stores the resulting session,
// displacing any stored customer session.
func (a *Auth) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := a.transport.Do(ctx, http.MethodPost, "/api/admin/auth/login", nil, body, nil)
	if err != nil {
		return nil, err
	}
	return a.storeLogin(resp, session.TypeAdmin)
}

// CustomerLogin authenticates a customer principal. customerCode scopes
// the username to a tenant.
func (a *Auth) CustomerLogin(ctx context.Context, customerCode, username, password string) (*LoginResult, error) {
	body := map[string]string{
		"customerCode": customerCode,
		"username":     username,
		"password":     password,
	}
	resp, err := a.transport.Do(ctx, http.MethodPost, "/api/customer/auth/login", nil, body, nil)
	if err != nil {
		return nil, err
	}
	return a.storeLogin(resp, session.TypeCustomer)
}

func (a *Auth) storeLogin(resp *api.Response, typ session.Type) (*LoginResult, error) {
	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	if result.Type != "" {
		typ = session.Type(result.Type)
	}
	if err := a.store.Set(session.Session{Type: typ, Token: result.Token, User: result.User}); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &result, nil
}

// AdminSignup registers a new admin account. The signup secret gates
// self-registration.
func (a *Auth) AdminSignup(ctx context.Context, username, password, role, secret string) (map[string]any, error) {
	body := map[string]string{"username": username, "password": password}
	if role != "" {
		body["role"] = role
	}
	if secret != "" {
		body["secret"] = secret
	}
	resp, err := a.transport.Do(ctx, http.MethodPost, "/api/admin/auth/signup", nil, body, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me fetches the identity behind the current token. Useful to verify a
// stored session before an interactive operation.
func (a *Auth) Me(ctx context.Context) (map[string]any, error) {
	path := "/api/admin/auth/me"
	if cur := a.store.Current(); cur != nil && cur.Type == session.TypeCustomer {
		path = "/api/customer/auth/me"
	}
	resp, err := a.transport.Do(ctx, http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout tells the backend to drop the session and clears local state.
// Local state is cleared even when the backend call fails; the token
// may already be dead.
func (a *Auth) Logout(ctx context.Context) error {
	path := "/api/admin/auth/logout"
	if cur := a.store.Current(); cur != nil && cur.Type == session.TypeCustomer {
		path = "/api/customer/auth/logout"
	}
	_, reqErr := a.transport.Do(ctx, http.MethodPost, path, nil, nil, nil)
	if err := a.store.Clear(); err != nil {
		return err
	}
	if reqErr != nil && reqErr != api.ErrUnauthorized {
		return reqErr
	}
	return nil
}

// ChangePassword rotates the customer principal's password. A changed
// password invalidates the token, so the local session is cleared on
// success and the user logs in again.
func (a *Auth) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if _, err := a.transport.Do(ctx, http.MethodPost, "/api/customer/auth/change-password", nil, body, nil); err != nil {
		return err
	}
	return a.store.Clear()
}
