package screen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/render"
	"github.com/sirupsen/logrus"
)

// Top10Screen lists the daily picks. Adding a pick consults the backend
// analysis for its stop-loss.
type Top10Screen struct {
	source   TopPicksSource
	hints    HintSource
	sink     PositionSink
	notifier Notifier
	logger   *logrus.Logger

	mu    sync.RWMutex
	picks []models.Candidate
}

func NewTop10Screen(source TopPicksSource, hints HintSource, sink PositionSink, notifier Notifier, logger *logrus.Logger) *Top10Screen {
	return &Top10Screen{
		source:   source,
		hints:    hints,
		sink:     sink,
		notifier: orSilent(notifier),
		logger:   orDiscard(logger),
	}
}

func (s *Top10Screen) Load(ctx context.Context) error {
	picks, err := s.source.Top10(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch top picks")
		s.notifier.Notify("Error", "Failed to fetch top picks")
		return err
	}

	s.mu.Lock()
	s.picks = picks
	s.mu.Unlock()
	return nil
}

func (s *Top10Screen) Picks() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Candidate(nil), s.picks...)
}

func (s *Top10Screen) Add(ctx context.Context, index int, contracts string) (models.Position, error) {
	s.mu.RLock()
	c, ok := pick(s.picks, index)
	s.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("no pick at position %d", index)
		s.notifier.Notify("Error", err.Error())
		return models.Position{}, err
	}
	return commitAndNotify(ctx, s.sink, s.hints, c, contracts, s.notifier, s.logger)
}

// ScannerScreen runs the options scanner and option-chain searches. Positions
// added from a chain are recorded under the searched symbol with the default
// risk band.
type ScannerScreen struct {
	source   ScannerSource
	sink     PositionSink
	notifier Notifier
	logger   *logrus.Logger

	mu       sync.RWMutex
	results  []models.Candidate
	selected string
}

func NewScannerScreen(source ScannerSource, sink PositionSink, notifier Notifier, logger *logrus.Logger) *ScannerScreen {
	return &ScannerScreen{
		source:   source,
		sink:     sink,
		notifier: orSilent(notifier),
		logger:   orDiscard(logger),
	}
}

func (s *ScannerScreen) Run(ctx context.Context) error {
	results, err := s.source.Scanner(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scanner run failed")
		s.notifier.Notify("Error", "Failed to run scanner")
		return err
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	lines := make([]string, 0, len(results))
	for _, c := range results {
		lines = append(lines, render.ScanLine(c))
	}
	s.notifier.Notify("High-Probability Options", "Results:\n\n"+strings.Join(lines, "\n"))
	return nil
}

func (s *ScannerScreen) Search(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		s.notifier.Notify("Enter Symbol", "Please enter a stock symbol")
		return ErrEmptySymbol
	}

	s.mu.Lock()
	s.selected = symbol
	s.mu.Unlock()

	results, err := s.source.ScannerForSymbol(ctx, symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Error("Option chain search failed")
		s.notifier.Notify("Error", "Failed to fetch options chain")
		return err
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
	return nil
}

func (s *ScannerScreen) Results() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Candidate(nil), s.results...)
}

func (s *ScannerScreen) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *ScannerScreen) Add(ctx context.Context, index int, contracts string) (models.Position, error) {
	s.mu.RLock()
	c, ok := pick(s.results, index)
	selected := s.selected
	s.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("no result at position %d", index)
		s.notifier.Notify("Error", err.Error())
		return models.Position{}, err
	}
	if selected != "" {
		c.Symbol = selected
	}
	return commitAndNotify(ctx, s.sink, nil, c, contracts, s.notifier, s.logger)
}

func commitAndNotify(ctx context.Context, sink PositionSink, hints HintSource, c models.Candidate, contracts string, notifier Notifier, logger *logrus.Logger) (models.Position, error) {
	pos, err := Commit(ctx, sink, hints, c, contracts, logger)
	if err != nil {
		logger.WithError(err).WithField("symbol", c.Symbol).Error("Failed to add position")
		notifier.Notify("Error", err.Error())
		return models.Position{}, err
	}
	notifier.Notify("Success", "Trade added to portfolio")
	return pos, nil
}

func pick(list []models.Candidate, index int) (models.Candidate, bool) {
	if index < 0 || index >= len(list) {
		return models.Candidate{}, false
	}
	return list[index], true
}
