// Package backend is the HTTP client for the school backend, which this
// gateway treats as a black box exposing two endpoints: a form-encoded token
// exchange and a bearer-authenticated current-user lookup.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("token rejected")
)

// User is the identity payload of the current-user endpoint. Fields arrive
// raw; normalization happens in the session layer.
type User struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	Level      string `json:"level"`
	Department string `json:"department"`
	FullName   string `json:"full_name"`
}

// LoginResult bundles the issued token with the identity fetched right after
// the exchange, mirroring what the login flow needs in one step.
type LoginResult struct {
	Token string
	User  User
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a token, then fetches the identity behind
// it. A 4xx from the token endpoint means the credentials were rejected.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("token exchange: %w", err)
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return LoginResult{}, ErrInvalidCredentials
	default:
		return LoginResult{}, fmt.Errorf("token exchange: unexpected status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return LoginResult{}, fmt.Errorf("token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return LoginResult{}, errors.New("token exchange: empty access_token")
	}

	user, err := c.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token.AccessToken, User: user}, nil
}

// CurrentUser validates a token by asking the backend who it belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/user-info", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("user info: %w", err)
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return User{}, ErrUnauthorized
	default:
		return User{}, fmt.Errorf("user info: unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("user info: %w", err)
	}
	if user.Username == "" || user.Role == "" {
		return User{}, errors.New("user info: incomplete payload")
	}
	return user, nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
