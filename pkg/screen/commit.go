package screen

import (
	"context"

	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/trade"
	"github.com/sirupsen/logrus"
)

// Commit turns a selected candidate into a tracked position. When hints is
// non-nil the backend analysis is consulted for the stop-loss; a failed hint
// lookup falls back to the default band rather than aborting the trade.
func Commit(ctx context.Context, sink PositionSink, hints HintSource, c models.Candidate, contractsInput string, logger *logrus.Logger) (models.Position, error) {
	logger = orDiscard(logger)

	contracts, err := trade.ParseContracts(contractsInput)
	if err != nil {
		return models.Position{}, err
	}
	// Reject malformed candidates before spending a request on the hint.
	if _, err := trade.Normalize(c, contracts, nil); err != nil {
		return models.Position{}, err
	}

	var hint *models.AnalysisHint
	if hints != nil {
		hint, err = hints.AnalysisHint(ctx, c.Symbol)
		if err != nil {
			logger.WithError(err).WithField("symbol", c.Symbol).Warn("Analysis hint unavailable, using default stop loss")
			hint = nil
		}
	}

	pos, err := trade.Normalize(c, contracts, hint)
	if err != nil {
		return models.Position{}, err
	}

	if err := sink.AddPosition(ctx, pos); err != nil {
		return models.Position{}, err
	}

	logger.WithFields(logrus.Fields{
		"symbol":       pos.Symbol,
		"type":         pos.Type,
		"strike":       pos.Strike,
		"contracts":    pos.Contracts,
		"stop_loss":    pos.StopLoss,
		"target_price": pos.TargetPrice,
		"hinted":       hint != nil && hint.Details.StopLoss != nil,
	}).Info("Position added to portfolio")
	return pos, nil
}
