package trade

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shadowstrike/options-client/pkg/models"
)

const (
	StopLossBand = 0.9
	TargetBand   = 1.1
)

var (
	ErrMissingStrike    = errors.New("candidate has neither strike nor buy_strike")
	ErrInvalidContracts = errors.New("contracts must be a positive integer")
)

// ValidationError reports a malformed candidate or contract count. It is local
// to the client and never sent over the network.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Normalize derives the Position a candidate should be tracked as. The hint is
// optional; when it carries a finite positive stop-loss that value replaces the
// default band. The target is always derived from the risk anchor.
func Normalize(c models.Candidate, contracts int, hint *models.AnalysisHint) (models.Position, error) {
	if contracts <= 0 {
		return models.Position{}, &ValidationError{Field: "contracts", Reason: ErrInvalidContracts}
	}
	if c.Instrument == nil {
		return models.Position{}, &ValidationError{Field: "strike", Reason: ErrMissingStrike}
	}

	strike := c.Instrument.EffectiveStrike()
	if !positive(strike) {
		return models.Position{}, &ValidationError{Field: "strike", Reason: ErrMissingStrike}
	}

	anchor := c.Instrument.RiskAnchor()
	if !positive(anchor) {
		return models.Position{}, &ValidationError{Field: "breakeven", Reason: ErrMissingStrike}
	}
	stopLoss := anchor * StopLossBand
	if sl, ok := hintStopLoss(hint); ok {
		stopLoss = sl
	}

	return models.Position{
		Symbol:      c.Symbol,
		Type:        c.Type,
		Strike:      strike,
		Price:       c.Price,
		Contracts:   contracts,
		StopLoss:    stopLoss,
		TargetPrice: anchor * TargetBand,
	}, nil
}

// ParseContracts turns user input into a contract count.
func ParseContracts(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: "contracts", Reason: ErrInvalidContracts}
	}
	return n, nil
}

func hintStopLoss(hint *models.AnalysisHint) (float64, bool) {
	if hint == nil || hint.Details.StopLoss == nil {
		return 0, false
	}
	sl := *hint.Details.StopLoss
	return sl, positive(sl)
}

func positive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
