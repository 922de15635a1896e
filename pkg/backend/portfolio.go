package backend

import (
	"context"
	"net/http"

	"github.com/shadowstrike/options-client/pkg/models"
)

func (c *Client) AddPosition(ctx context.Context, pos models.Position) error {
	return c.postStatus(ctx, "add position", "/api/portfolio", pos)
}

func (c *Client) Portfolio(ctx context.Context) ([]models.PortfolioEntry, error) {
	var out []models.PortfolioEntry
	if err := c.doRequest(ctx, "portfolio", http.MethodGet, "/api/portfolio", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
