package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is the login payload as the backend sends it: both the token
// and the user object, with no envelope removed.
type LoginResponse struct {
	JWT  string          `json:"jwt"`
	User json.RawMessage `json:"user"`
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	raw, err := c.Post(ctx, "/auth/local", req)
	if err != nil {
		return nil, err
	}
	resp, err := Decode[LoginResponse](raw)
	if err != nil {
		return nil, err
	}
	if resp.JWT == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	c.tokens.SetToken(resp.JWT)
	return &resp, nil
}

// Register creates an account. When the backend logs the new user in right
// away the token is stored as after Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (json.RawMessage, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	raw, err := c.Post(ctx, "/auth/local/register", req)
	if err != nil {
		return nil, err
	}
	if token := gjson.GetBytes(raw, "jwt").String(); token != "" {
		c.tokens.SetToken(token)
	}
	return raw, nil
}

// Logout tells the backend and drops the local token whatever it answers.
func (c *Client) Logout(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.Post(ctx, "/auth/logout", nil)
	c.tokens.Clear()
	return raw, err
}

// RefreshToken replaces the stored token when the backend issues a new one.
func (c *Client) RefreshToken(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.Post(ctx, "/auth/refresh", nil)
	if err != nil {
		return nil, err
	}
	if token := gjson.GetBytes(raw, "jwt").String(); token != "" {
		c.tokens.SetToken(token)
	}
	return raw, nil
}
