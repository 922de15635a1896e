// Package screen holds the controllers behind each client screen. They own
// fetched state, refresh scheduling and user notices. Notice text reuses the
// line formatters in pkg/render; drawing whole screens is left to the caller.
package screen

import (
	"context"
	"errors"
	"io"

	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/sirupsen/logrus"
)

var ErrEmptySymbol = errors.New("symbol is required")

// Notifier shows a one-shot notice to the user.
type Notifier interface {
	Notify(title, message string)
}

type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) {
	f(title, message)
}

type MarketSource interface {
	MarketData(ctx context.Context) ([]models.StockQuote, error)
}

type TopPicksSource interface {
	Top10(ctx context.Context) ([]models.Candidate, error)
}

type ScannerSource interface {
	Scanner(ctx context.Context) ([]models.Candidate, error)
	ScannerForSymbol(ctx context.Context, symbol string) ([]models.Candidate, error)
}

type HintSource interface {
	AnalysisHint(ctx context.Context, symbol string) (*models.AnalysisHint, error)
}

type PositionSink interface {
	AddPosition(ctx context.Context, pos models.Position) error
}

type PortfolioSource interface {
	Portfolio(ctx context.Context) ([]models.PortfolioEntry, error)
}

func orDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func orSilent(n Notifier) Notifier {
	if n != nil {
		return n
	}
	return NotifierFunc(func(string, string) {})
}
