package supabase

import (
	"fmt"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// Session is what login and signup hand back to the caller.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// User is the authenticated account as GoTrue reports it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthClient wraps GoTrue email and password auth.
type AuthClient struct {
	auth gotrue.Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{auth: c.Supabase.Auth}
}

// NewAuthClientWith wraps a GoTrue client directly.
func NewAuthClientWith(auth gotrue.Client) *AuthClient {
	return &AuthClient{auth: auth}
}

// Signup creates an account. Session is nil when email confirmation is
// pending.
func (a *AuthClient) Signup(email, password string) (*User, *Session, error) {
	resp, err := a.auth.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign up: %w", err)
	}

	if resp.Session.AccessToken != "" {
		s := toSession(resp.Session)
		return &User{ID: s.UserID, Email: s.Email}, s, nil
	}
	return &User{ID: resp.User.ID.String(), Email: resp.User.Email}, nil, nil
}

func (a *AuthClient) Login(email, password string) (*Session, error) {
	resp, err := a.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return toSession(resp.Session), nil
}

// Logout revokes the session behind accessToken.
func (a *AuthClient) Logout(accessToken string) error {
	if err := a.auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

func (a *AuthClient) GetUser(accessToken string) (*User, error) {
	resp, err := a.auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &User{ID: resp.ID.String(), Email: resp.Email}, nil
}

func toSession(s types.Session) *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		UserID:       s.User.ID.String(),
		Email:        s.User.Email,
	}
}
