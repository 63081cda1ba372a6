package api

import (
	"context"
	"encoding/json"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/avelar/chatdeck/internal/errors"
	"github.com/avelar/chatdeck/internal/models"
)

type verifyResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Verify asks the backend who the session cookie belongs to. A
// response without an identity returns (nil, nil): anonymous is the
// normal state, not an error.
func (c *Client) Verify(ctx context.Context) (*models.User, error) {
	body, _, err := c.do(ctx, fhttp.MethodGet, models.PathVerify, nil)
	if err != nil {
		if apierrors.IsAuthError(err) {
			return nil, nil
		}
		return nil, err
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apierrors.NewParseError(err.Error(), models.PathVerify)
	}
	if !resp.Authenticated || resp.User == nil {
		return nil, nil
	}

	return resp.User, nil
}

// Login posts credentials and returns the authenticated identity. The
// session cookie from the response is captured and persisted by the
// transport layer.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	body, _, err := c.do(ctx, fhttp.MethodPost, models.PathLogin, loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apierrors.NewParseError(err.Error(), models.PathLogin)
	}
	if !resp.Success {
		return nil, apierrors.NewAuthError(resp.Error)
	}
	if resp.User == nil {
		return nil, apierrors.NewParseError("login succeeded without a user payload", models.PathLogin)
	}

	return resp.User, nil
}

// Register creates an account. It does not authenticate; callers
// switch to the login flow on success.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body, _, err := c.do(ctx, fhttp.MethodPost, models.PathRegister, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apierrors.NewParseError(err.Error(), models.PathRegister)
	}
	if !resp.Success {
		return apierrors.NewAuthError(resp.Error)
	}

	return nil
}

// Logout invalidates the session server-side. Callers clear local
// state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, _, err := c.do(ctx, fhttp.MethodPost, models.PathLogout, nil)
	return err
}
