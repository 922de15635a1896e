package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/session"
)

func TestScanLine(t *testing.T) {
	tests := []struct {
		c      models.Candidate
		expect string
	}{
		{
			models.Candidate{Symbol: "SPY", Type: "CALL", Instrument: models.SingleLeg{Strike: 500, ProbabilityITM: 62.5}},
			"SPY CALL $500 - 62.5%",
		},
		{
			models.Candidate{Symbol: "QQQ", Type: "bull_call", Instrument: models.Spread{BuyStrike: 400, MaxProfit: 310, ProbabilityITM: 48}},
			"QQQ bull_call - 48% (Spread: $310)",
		},
	}
	for _, tt := range tests {
		if got := ScanLine(tt.c); got != tt.expect {
			t.Errorf("ScanLine = %q, expected %q", got, tt.expect)
		}
	}
}

func TestSignals(t *testing.T) {
	if Signals(nil) != "None" {
		t.Errorf("expected None for no signals")
	}
	if got := Signals([]string{"A", "B"}); got != "A, B" {
		t.Errorf("unexpected signals %q", got)
	}
}

func TestMarketIncludesStatusAndVolume(t *testing.T) {
	var buf bytes.Buffer
	quotes := []models.StockQuote{{Symbol: "AAPL", Price: 190.1, Change: -2.5, ChangePercent: -1.3, Volume: 1234567}}
	if err := Market(&buf, session.Closed, time.Time{}, quotes); err != nil {
		t.Fatalf("Market failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Market: CLOSED", "Showing last close prices", "AAPL", "-$2.50", "1,234,567"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Last Update") {
		t.Error("did not expect last update before any refresh")
	}
}

func TestQuoteDetail(t *testing.T) {
	got := QuoteDetail(models.StockQuote{Symbol: "MSFT", Price: 420, Change: 3.1, ChangePercent: 0.74, Volume: 2500, MarketCap: 3.12e12})
	if !strings.Contains(got, "Market Cap: $3120.00B") || !strings.Contains(got, "+$3.10") {
		t.Errorf("unexpected detail:\n%s", got)
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	Notifier{W: &buf}.Notify("Success", "Trade added to portfolio")
	if buf.String() != "[Success] Trade added to portfolio\n" {
		t.Errorf("unexpected notice %q", buf.String())
	}
}
