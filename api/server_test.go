package api

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shadowstrike/options-client/pkg/backend"
	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/screen"
	"github.com/sirupsen/logrus"
)

func newTestBackend(t *testing.T) *backend.Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv := httptest.NewServer(NewServer(NewStore(), logger, "0").Handler())
	t.Cleanup(srv.Close)

	c, err := backend.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestHealth(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewServer(NewStore(), logger, "0").Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestPortfolioRequiresSession(t *testing.T) {
	c := newTestBackend(t)

	_, err := c.Portfolio(context.Background())
	var netErr *backend.NetworkError
	if !errors.As(err, &netErr) || netErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 NetworkError, got %v", err)
	}
}

func TestAccountFlow(t *testing.T) {
	c := newTestBackend(t)
	ctx := context.Background()

	reg := models.Registration{Email: "trader@example.com", Password: "pw", Username: "trader", Color: "#10b981"}
	if err := c.Register(ctx, reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	var rejected *backend.RejectedError
	if err := c.Register(ctx, reg); !errors.As(err, &rejected) {
		t.Errorf("expected duplicate registration to be rejected, got %v", err)
	}
	if err := c.Login(ctx, models.Credentials{Email: reg.Email, Password: "wrong"}); !errors.As(err, &rejected) {
		t.Errorf("expected bad password to be rejected, got %v", err)
	}
	if err := c.Login(ctx, models.Credentials{Email: reg.Email, Password: "pw"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := c.UpdateColor(ctx, "#ff0000"); err != nil {
		t.Errorf("UpdateColor failed: %v", err)
	}
	if err := c.ResetPassword(ctx, "nobody@example.com"); !errors.As(err, &rejected) {
		t.Errorf("expected unknown email to be rejected, got %v", err)
	}
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := c.Portfolio(ctx); err == nil {
		t.Error("expected portfolio to require a session after logout")
	}
}

func TestTopPickCommittedWithHint(t *testing.T) {
	c := newTestBackend(t)
	ctx := context.Background()

	if err := c.Register(ctx, models.Registration{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	top := screen.NewTop10Screen(c, c, c, nil, nil)
	if err := top.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	picks := top.Picks()
	if len(picks) == 0 || len(picks) > 10 {
		t.Fatalf("unexpected number of picks: %d", len(picks))
	}

	index := -1
	for i, p := range picks {
		if p.Symbol == "AAPL" {
			index = i
		}
	}
	if index < 0 {
		t.Fatal("expected AAPL among the picks")
	}

	pos, err := top.Add(ctx, index, "2")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if pos.StopLoss != 171.4 || math.Abs(pos.TargetPrice-198) > 1e-9 || pos.Strike != 180 {
		t.Errorf("unexpected position %+v", pos)
	}

	entries, err := c.Portfolio(ctx)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.EntryPrice != 3.25 || e.Contracts != 2 || math.Abs(e.PnL-(-1.3)) > 1e-9 {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestScannerAndScenario(t *testing.T) {
	c := newTestBackend(t)
	ctx := context.Background()

	results, err := c.Scanner(ctx)
	if err != nil {
		t.Fatalf("Scanner failed: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].ProbabilityITM() > results[i-1].ProbabilityITM() {
			t.Fatalf("scanner results not sorted by probability: %v", results)
		}
	}

	chain, err := c.ScannerForSymbol(ctx, "spy")
	if err != nil {
		t.Fatalf("ScannerForSymbol failed: %v", err)
	}
	if len(chain) == 0 || chain[0].Symbol != "SPY" {
		t.Errorf("unexpected chain %+v", chain)
	}

	scenario, err := c.TradeScenario(ctx, "gld", 230)
	if err != nil {
		t.Fatalf("TradeScenario failed: %v", err)
	}
	if len(scenario) != 2 {
		t.Errorf("expected the two GLD legs, got %d", len(scenario))
	}

	hint, err := c.AnalysisHint(ctx, "NONE")
	if err != nil || hint != nil {
		t.Errorf("expected no hint for unknown symbol, got %+v, %v", hint, err)
	}
}
