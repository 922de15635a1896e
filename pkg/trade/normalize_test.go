package trade

import (
	"errors"
	"math"
	"testing"

	"github.com/shadowstrike/options-client/pkg/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func hintWith(sl float64) *models.AnalysisHint {
	return &models.AnalysisHint{Details: models.HintDetails{StopLoss: &sl}}
}

func TestNormalizeSingleLegDefaults(t *testing.T) {
	for _, strike := range []float64{1, 42.5, 180, 512.25} {
		c := models.Candidate{
			Symbol:     "SPY",
			Type:       "PUT",
			Price:      2,
			Instrument: models.SingleLeg{Strike: strike, Type: models.OptionTypePut},
		}
		pos, err := Normalize(c, 1, nil)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if pos.Strike != strike || !approx(pos.StopLoss, 0.9*strike) || !approx(pos.TargetPrice, 1.1*strike) {
			t.Errorf("strike %v: unexpected position %+v", strike, pos)
		}
		if !(pos.StopLoss < pos.Strike && pos.Strike < pos.TargetPrice) {
			t.Errorf("strike %v: expected stop < strike < target, got %+v", strike, pos)
		}
	}
}

func TestNormalizeSpreadAnchorsOnBreakeven(t *testing.T) {
	c := models.Candidate{
		Symbol:     "QQQ",
		Type:       "bull_call",
		Instrument: models.Spread{BuyStrike: 400, SellStrike: 405, Breakeven: 402.5},
	}
	pos, err := Normalize(c, 3, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if pos.Strike != 400 {
		t.Errorf("expected strike 400, got %v", pos.Strike)
	}
	if !approx(pos.StopLoss, 0.9*402.5) {
		t.Errorf("expected stop loss %v, got %v", 0.9*402.5, pos.StopLoss)
	}
	if !approx(pos.TargetPrice, 1.1*402.5) {
		t.Errorf("expected target %v, got %v", 1.1*402.5, pos.TargetPrice)
	}
	if pos.Contracts != 3 {
		t.Errorf("expected 3 contracts, got %d", pos.Contracts)
	}
}

func TestNormalizeHintOverridesStopLossOnly(t *testing.T) {
	shapes := []models.Instrument{
		models.SingleLeg{Strike: 100},
		models.Spread{BuyStrike: 100, Breakeven: 103},
	}
	for _, inst := range shapes {
		c := models.Candidate{Symbol: "GLD", Type: "CALL", Instrument: inst}
		pos, err := Normalize(c, 1, hintWith(77.7))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if pos.StopLoss != 77.7 {
			t.Errorf("%T: expected hinted stop loss 77.7, got %v", inst, pos.StopLoss)
		}
		if !approx(pos.TargetPrice, inst.RiskAnchor()*1.1) {
			t.Errorf("%T: target changed by hint: %v", inst, pos.TargetPrice)
		}
	}
}

func TestNormalizeIgnoresUnusableHint(t *testing.T) {
	c := models.Candidate{Symbol: "SLV", Type: "CALL", Instrument: models.SingleLeg{Strike: 20}}
	tests := []struct {
		name string
		hint *models.AnalysisHint
	}{
		{"empty details", &models.AnalysisHint{}},
		{"nan", hintWith(math.NaN())},
		{"inf", hintWith(math.Inf(1))},
		{"zero", hintWith(0)},
		{"negative", hintWith(-4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := Normalize(c, 1, tt.hint)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !approx(pos.StopLoss, 18) {
				t.Errorf("expected default stop loss 18, got %v", pos.StopLoss)
			}
		})
	}
}

func TestNormalizeRejectsContracts(t *testing.T) {
	c := models.Candidate{Symbol: "AAPL", Instrument: models.SingleLeg{Strike: 180}}
	for _, n := range []int{0, -3} {
		_, err := Normalize(c, n, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("contracts %d: expected ValidationError, got %v", n, err)
		}
		if !errors.Is(err, ErrInvalidContracts) {
			t.Errorf("contracts %d: expected ErrInvalidContracts, got %v", n, err)
		}
	}
}

func TestNormalizeMissingStrike(t *testing.T) {
	tests := []struct {
		name string
		inst models.Instrument
	}{
		{"no instrument", nil},
		{"zero strike", models.SingleLeg{Strike: 0}},
		{"nan buy strike", models.Spread{BuyStrike: math.NaN(), Breakeven: 10}},
		{"no breakeven", models.Spread{BuyStrike: 400}},
		{"nan breakeven", models.Spread{BuyStrike: 400, Breakeven: math.NaN()}},
		{"infinite breakeven", models.Spread{BuyStrike: 400, Breakeven: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(models.Candidate{Symbol: "X", Instrument: tt.inst}, 1, nil)
			if !errors.Is(err, ErrMissingStrike) {
				t.Errorf("expected ErrMissingStrike, got %v", err)
			}
		})
	}
}

func TestNormalizeEndToEndExample(t *testing.T) {
	c := models.Candidate{
		Symbol:     "AAPL",
		Type:       "CALL",
		Price:      3.25,
		Expiration: "2025-06-20",
		Instrument: models.SingleLeg{Strike: 180, Type: models.OptionTypeCall},
	}
	pos, err := Normalize(c, 2, nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	expected := models.Position{
		Symbol:      "AAPL",
		Type:        "CALL",
		Strike:      180,
		Price:       3.25,
		Contracts:   2,
		StopLoss:    162.0,
		TargetPrice: 198.0,
	}
	if pos.Symbol != expected.Symbol || pos.Type != expected.Type || pos.Strike != expected.Strike ||
		pos.Price != expected.Price || pos.Contracts != expected.Contracts ||
		!approx(pos.StopLoss, expected.StopLoss) || !approx(pos.TargetPrice, expected.TargetPrice) {
		t.Errorf("expected %+v, got %+v", expected, pos)
	}
}

func TestParseContracts(t *testing.T) {
	tests := []struct {
		input  string
		expect int
		ok     bool
	}{
		{"2", 2, true},
		{" 10 ", 10, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"two", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		n, err := ParseContracts(tt.input)
		if tt.ok && (err != nil || n != tt.expect) {
			t.Errorf("ParseContracts(%q) = %d, %v; expected %d", tt.input, n, err, tt.expect)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidContracts) {
			t.Errorf("ParseContracts(%q): expected ErrInvalidContracts, got %v", tt.input, err)
		}
	}
}
