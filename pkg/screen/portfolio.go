package screen

import (
	"context"
	"sync"

	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/sirupsen/logrus"
)

type PortfolioScreen struct {
	source   PortfolioSource
	notifier Notifier
	logger   *logrus.Logger

	mu      sync.RWMutex
	entries []models.PortfolioEntry
}

func NewPortfolioScreen(source PortfolioSource, notifier Notifier, logger *logrus.Logger) *PortfolioScreen {
	return &PortfolioScreen{
		source:   source,
		notifier: orSilent(notifier),
		logger:   orDiscard(logger),
	}
}

func (s *PortfolioScreen) Load(ctx context.Context) error {
	entries, err := s.source.Portfolio(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch portfolio")
		s.notifier.Notify("Error", "Failed to fetch portfolio")
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func (s *PortfolioScreen) Entries() []models.PortfolioEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PortfolioEntry(nil), s.entries...)
}
