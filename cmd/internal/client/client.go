package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxResponseBytes = 64 << 10

// Client calls the authd HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for cfg. A nil httpClient gets one with cfg.Timeout.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("client: invalid server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("client: invalid server url %q", cfg.ServerURL)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, http: httpClient}, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp registers a new user.
func (c *Client) SignUp(ctx context.Context, username, password string) error {
	return c.post(ctx, "/auth/signup", credentials{Username: username, Password: password}, http.StatusCreated, nil)
}

// SignIn returns the identity token for valid credentials.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	var out struct {
		IdentityToken string `json:"identity_token"`
	}
	if err := c.post(ctx, "/auth/signin", credentials{Username: username, Password: password}, http.StatusOK, &out); err != nil {
		return "", err
	}
	if out.IdentityToken == "" {
		return "", errors.New("client: signin response has no identity token")
	}
	return out.IdentityToken, nil
}

// Delete removes the user owning identityToken. Unknown tokens are not an error.
func (c *Client) Delete(ctx context.Context, identityToken string) error {
	body := struct {
		IdentityToken string `json:"identity_token"`
	}{IdentityToken: identityToken}
	return c.post(ctx, "/auth/delete", body, http.StatusNoContent, nil)
}

func (c *Client) post(ctx context.Context, path string, in any, want int, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	if resp.StatusCode != want {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	ae := &APIError{Status: status}
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Code != "" {
		ae.Code = body.Error.Code
		ae.Message = body.Error.Message
		return ae
	}
	ae.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	return ae
}
