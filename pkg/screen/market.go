package screen

import (
	"context"
	"sync"
	"time"

	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/refresh"
	"github.com/shadowstrike/options-client/pkg/session"
	"github.com/sirupsen/logrus"
)

const DefaultMarketInterval = 30 * time.Second

type MarketView struct {
	Quotes     []models.StockQuote
	LastUpdate time.Time
	Status     session.Status
	Loading    bool
}

type MarketOption func(*MarketScreen)

func WithClock(clock func() time.Time) MarketOption {
	return func(s *MarketScreen) {
		s.clock = clock
	}
}

func WithInterval(interval time.Duration) MarketOption {
	return func(s *MarketScreen) {
		s.interval = interval
	}
}

// WithOnUpdate registers a callback invoked after each applied refresh.
func WithOnUpdate(fn func(MarketView)) MarketOption {
	return func(s *MarketScreen) {
		s.onUpdate = fn
	}
}

// MarketScreen shows the top movers with an OPEN/CLOSED badge. While mounted it
// refreshes on a fixed cadence through a refresh.Handle it exclusively owns.
type MarketScreen struct {
	source   MarketSource
	notifier Notifier
	logger   *logrus.Logger
	interval time.Duration
	clock    func() time.Time
	onUpdate func(MarketView)

	mu         sync.RWMutex
	quotes     []models.StockQuote
	lastUpdate time.Time
	inflight   int
	generation uint64
	mounted    bool
	handle     *refresh.Handle
}

func NewMarketScreen(source MarketSource, notifier Notifier, logger *logrus.Logger, opts ...MarketOption) *MarketScreen {
	s := &MarketScreen{
		source:   source,
		notifier: orSilent(notifier),
		logger:   orDiscard(logger),
		interval: DefaultMarketInterval,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount loads data immediately and starts the periodic refresh. Mounting an
// already mounted screen does nothing.
func (s *MarketScreen) Mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return nil
	}

	s.generation++
	gen := s.generation
	handle := refresh.New(
		refresh.WithLogger(s.logger),
		refresh.WithFailureHandler(func(err error) { s.reportTickFailure(gen, err) }),
	)
	if err := handle.Start(ctx, s.interval, s.tick(gen)); err != nil {
		return err
	}
	handle.TriggerNow(ctx, s.tick(gen))

	s.handle = handle
	s.mounted = true
	s.logger.WithField("interval", s.interval.String()).Info("Market screen mounted")
	return nil
}

// Unmount stops the refresh timer. Responses still in flight are dropped when
// they land.
func (s *MarketScreen) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	s.generation++
	handle := s.handle
	s.handle = nil
	s.mu.Unlock()

	handle.Stop()
	s.logger.Info("Market screen unmounted")
}

func (s *MarketScreen) Mounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounted
}

// Refresh fetches and applies market data now. Failures are shown to the
// user and returned; the previous quotes stay visible. On an unmounted screen
// the quotes are stored for View but OnUpdate is not called.
func (s *MarketScreen) Refresh(ctx context.Context) error {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	if err := s.tick(gen)(ctx); err != nil {
		s.notifier.Notify("Error", "Failed to fetch market data")
		return err
	}
	return nil
}

// View snapshots the screen. The session status is evaluated on every call.
func (s *MarketScreen) View() MarketView {
	s.mu.RLock()
	quotes := make([]models.StockQuote, len(s.quotes))
	copy(quotes, s.quotes)
	view := MarketView{
		Quotes:     quotes,
		LastUpdate: s.lastUpdate,
		Loading:    s.inflight > 0,
	}
	s.mu.RUnlock()

	view.Status = session.Classify(s.clock())
	return view
}

func (s *MarketScreen) tick(gen uint64) refresh.TickFunc {
	return func(ctx context.Context) error {
		s.setLoading(1)
		quotes, err := s.source.MarketData(ctx)
		s.setLoading(-1)
		if err != nil {
			return err
		}
		s.apply(gen, quotes)
		return nil
	}
}

func (s *MarketScreen) apply(gen uint64, quotes []models.StockQuote) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("Dropping market data for a screen that is no longer visible")
		return
	}
	s.quotes = quotes
	s.lastUpdate = s.clock()
	visible := s.mounted
	s.mu.Unlock()

	if visible && s.onUpdate != nil {
		s.onUpdate(s.View())
	}
}

func (s *MarketScreen) reportTickFailure(gen uint64, err error) {
	s.mu.RLock()
	current := gen == s.generation
	s.mu.RUnlock()

	if !current {
		return
	}
	s.logger.WithError(err).Warn("Market data refresh failed")
	s.notifier.Notify("Error", "Failed to fetch market data")
}

func (s *MarketScreen) setLoading(delta int) {
	s.mu.Lock()
	s.inflight += delta
	s.mu.Unlock()
}
