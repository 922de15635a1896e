package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shadowstrike/options-client/pkg/models"
)

func (c *Client) MarketData(ctx context.Context) ([]models.StockQuote, error) {
	var data models.MarketData
	if err := c.doRequest(ctx, "market data", http.MethodGet, "/market-data", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.TopMovers, nil
}

func (c *Client) Top10(ctx context.Context) ([]models.Candidate, error) {
	var out []models.Candidate
	if err := c.doRequest(ctx, "top picks", http.MethodGet, "/api/top10", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Scanner(ctx context.Context) ([]models.Candidate, error) {
	var out []models.Candidate
	if err := c.doRequest(ctx, "scanner", http.MethodGet, "/api/scanner", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScannerForSymbol fetches the option chain candidates for one symbol.
func (c *Client) ScannerForSymbol(ctx context.Context, symbol string) ([]models.Candidate, error) {
	var out []models.Candidate
	err := c.doRequest(ctx, "option chain", http.MethodGet, "/api/scanner", symbolQuery(symbol), nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AnalysisHint returns the first scanner element's details for the symbol, or
// nil when the backend has none.
func (c *Client) AnalysisHint(ctx context.Context, symbol string) (*models.AnalysisHint, error) {
	var out []models.AnalysisHint
	err := c.doRequest(ctx, "analysis hint", http.MethodGet, "/api/scanner", symbolQuery(symbol), nil, &out)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (c *Client) TradeScenario(ctx context.Context, symbol string, targetPrice float64) ([]models.Candidate, error) {
	req := models.ScenarioRequest{Symbol: strings.ToUpper(symbol), TargetPrice: targetPrice}
	var out []models.Candidate
	if err := c.doRequest(ctx, "trade scenario", http.MethodPost, "/api/trade-scenario", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func symbolQuery(symbol string) url.Values {
	return url.Values{"symbol": []string{strings.ToUpper(symbol)}}
}
