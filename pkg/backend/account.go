package backend

import (
	"context"
	"net/http"

	"github.com/shadowstrike/options-client/pkg/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) error {
	return c.postStatus(ctx, "login", "/login", creds)
}

func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	return c.postStatus(ctx, "register", "/register", reg)
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.postStatus(ctx, "reset password", "/reset-password", models.ResetRequest{Email: email})
}

func (c *Client) UpdateColor(ctx context.Context, color string) error {
	return c.postStatus(ctx, "update color", "/api/update-color", models.ColorUpdate{Color: color})
}

// Logout ends the backend session. The response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	return c.doRequest(ctx, "logout", http.MethodGet, "/logout", nil, nil, nil)
}

func (c *Client) postStatus(ctx context.Context, op, path string, body interface{}) error {
	var status models.StatusResponse
	if err := c.doRequest(ctx, op, http.MethodPost, path, nil, body, &status); err != nil {
		return err
	}
	if status.Error != "" {
		return &RejectedError{Op: op, Message: status.Error}
	}
	return nil
}
