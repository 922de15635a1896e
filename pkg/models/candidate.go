package models

import (
	"encoding/json"
	"fmt"
)

type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// Instrument is the shape of a scanner candidate. It is either a SingleLeg or a
// Spread; no other implementations exist.
type Instrument interface {
	// EffectiveStrike is the nominal strike recorded on a position.
	EffectiveStrike() float64
	// RiskAnchor is the level default stop-loss and target bands derive from.
	RiskAnchor() float64
	isInstrument()
}

type SingleLeg struct {
	Strike         float64
	Type           OptionType
	ProbabilityITM float64
	ProbabilityOTM float64
}

func (s SingleLeg) EffectiveStrike() float64 { return s.Strike }
func (s SingleLeg) RiskAnchor() float64      { return s.Strike }
func (SingleLeg) isInstrument()              {}

// Spread is a two-leg vertical. Its risk is bounded by the wings, so the risk
// anchor is the breakeven rather than the bought leg's strike.
type Spread struct {
	BuyStrike      float64
	SellStrike     float64
	Breakeven      float64
	MaxProfit      float64
	MaxLoss        float64
	ProbabilityITM float64
}

func (s Spread) EffectiveStrike() float64 { return s.BuyStrike }
func (s Spread) RiskAnchor() float64      { return s.Breakeven }
func (Spread) isInstrument()              {}

// Candidate is a scanner-produced trade opportunity. Instrument is nil when the
// backend sent neither strike nor buy_strike.
type Candidate struct {
	Symbol         string
	Type           string
	Expiration     string
	Price          float64
	Signals        []string
	Recommendation string
	Score          float64
	Instrument     Instrument
}

type candidateWire struct {
	Symbol         string   `json:"symbol"`
	Type           string   `json:"type"`
	Expiration     string   `json:"expiration,omitempty"`
	Price          float64  `json:"price"`
	Signals        []string `json:"signals,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Score          *float64 `json:"score,omitempty"`
	ProbabilityITM *float64 `json:"probabilityITM,omitempty"`
	ProbabilityOTM *float64 `json:"probabilityOTM,omitempty"`

	Strike *float64 `json:"strike,omitempty"`

	BuyStrike  *float64 `json:"buy_strike,omitempty"`
	SellStrike *float64 `json:"sell_strike,omitempty"`
	Breakeven  *float64 `json:"breakeven,omitempty"`
	MaxProfit  *float64 `json:"max_profit,omitempty"`
	MaxLoss    *float64 `json:"max_loss,omitempty"`
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var w candidateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding candidate: %w", err)
	}

	*c = Candidate{
		Symbol:         w.Symbol,
		Type:           w.Type,
		Expiration:     w.Expiration,
		Price:          w.Price,
		Signals:        w.Signals,
		Recommendation: w.Recommendation,
		Score:          deref(w.Score),
	}
	if c.Signals == nil {
		c.Signals = []string{}
	}

	switch {
	case w.Strike != nil:
		c.Instrument = SingleLeg{
			Strike:         *w.Strike,
			Type:           OptionType(w.Type),
			ProbabilityITM: deref(w.ProbabilityITM),
			ProbabilityOTM: deref(w.ProbabilityOTM),
		}
	case w.BuyStrike != nil:
		c.Instrument = Spread{
			BuyStrike:      *w.BuyStrike,
			SellStrike:     deref(w.SellStrike),
			Breakeven:      deref(w.Breakeven),
			MaxProfit:      deref(w.MaxProfit),
			MaxLoss:        deref(w.MaxLoss),
			ProbabilityITM: deref(w.ProbabilityITM),
		}
	}
	return nil
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	w := candidateWire{
		Symbol:         c.Symbol,
		Type:           c.Type,
		Expiration:     c.Expiration,
		Price:          c.Price,
		Signals:        c.Signals,
		Recommendation: c.Recommendation,
	}
	if c.Score != 0 {
		w.Score = ptr(c.Score)
	}

	switch inst := c.Instrument.(type) {
	case SingleLeg:
		w.Strike = ptr(inst.Strike)
		w.ProbabilityITM = ptr(inst.ProbabilityITM)
		w.ProbabilityOTM = ptr(inst.ProbabilityOTM)
	case Spread:
		w.BuyStrike = ptr(inst.BuyStrike)
		w.SellStrike = ptr(inst.SellStrike)
		w.Breakeven = ptr(inst.Breakeven)
		w.MaxProfit = ptr(inst.MaxProfit)
		w.MaxLoss = ptr(inst.MaxLoss)
		w.ProbabilityITM = ptr(inst.ProbabilityITM)
	}
	return json.Marshal(w)
}

// ProbabilityITM reports the in-the-money probability for either shape.
func (c Candidate) ProbabilityITM() float64 {
	switch inst := c.Instrument.(type) {
	case SingleLeg:
		return inst.ProbabilityITM
	case Spread:
		return inst.ProbabilityITM
	}
	return 0
}

// AnalysisHint is the optional backend override for the default stop-loss.
type AnalysisHint struct {
	Details HintDetails `json:"details"`
}

type HintDetails struct {
	StopLoss *float64 `json:"StopLoss,omitempty"`
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func ptr(f float64) *float64 {
	return &f
}
