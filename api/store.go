package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shadowstrike/options-client/pkg/models"
)

type account struct {
	username string
	password string
	color    string
}

type trade struct {
	position     models.Position
	currentPrice float64
	fee          float64
}

// Store holds the development backend's accounts, sessions, trades and a fixed
// market snapshot.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account
	sessions map[string]string
	trades   map[string][]trade

	quotes    []models.StockQuote
	options   []models.Candidate
	spreads   []models.Candidate
	stopLoss  map[string]float64
	lastPrice map[string]float64
}

func NewStore() *Store {
	s := &Store{
		accounts:  make(map[string]*account),
		sessions:  make(map[string]string),
		trades:    make(map[string][]trade),
		stopLoss:  make(map[string]float64),
		lastPrice: make(map[string]float64),
	}
	s.seed()
	return s
}

func (s *Store) Register(reg models.Registration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(reg.Email)
	if _, exists := s.accounts[email]; exists {
		return "", fmt.Errorf("email %s already registered", reg.Email)
	}
	s.accounts[email] = &account{username: reg.Username, password: reg.Password, color: reg.Color}
	return email, nil
}

func (s *Store) Authenticate(email, password string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	acct, ok := s.accounts[email]
	if !ok || acct.password != password {
		return "", false
	}
	return email, true
}

func (s *Store) HasUser(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[strings.ToLower(email)]
	return ok
}

func (s *Store) SetColor(user, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[user]; ok {
		acct.color = color
	}
}

func (s *Store) StartSession(token, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = user
}

func (s *Store) EndSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Store) SessionUser(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.sessions[token]
	return user, ok
}

func (s *Store) Quotes() []models.StockQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StockQuote(nil), s.quotes...)
}

// TopPicks ranks by score where present, otherwise by ITM probability.
func (s *Store) TopPicks(n int) []models.Candidate {
	s.mu.RLock()
	all := append(append([]models.Candidate(nil), s.options...), s.spreads...)
	s.mu.RUnlock()

	rank := func(c models.Candidate) float64 {
		if c.Score != 0 {
			return c.Score
		}
		return c.ProbabilityITM()
	}
	sort.SliceStable(all, func(i, j int) bool { return rank(all[i]) > rank(all[j]) })
	return limit(all, n)
}

func (s *Store) Scan(n int) []models.Candidate {
	s.mu.RLock()
	all := append(append([]models.Candidate(nil), s.options...), s.spreads...)
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].ProbabilityITM() > all[j].ProbabilityITM() })
	for i := range all {
		all[i].Score = 0
		all[i].Signals = nil
	}
	return limit(all, n)
}

// Analysis returns the symbol's chain with the technical analysis details
// attached to every row.
func (s *Store) Analysis(symbol string) []json.RawMessage {
	symbol = strings.ToUpper(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	details := map[string]float64{"Price": s.lastPrice[symbol]}
	if sl, ok := s.stopLoss[symbol]; ok {
		details["StopLoss"] = sl
	}

	rows := make([]json.RawMessage, 0)
	for _, c := range append(append([]models.Candidate(nil), s.options...), s.spreads...) {
		if c.Symbol != symbol {
			continue
		}
		row, err := withDetails(c, details)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Store) Scenario(symbol string, n int) []models.Candidate {
	symbol = strings.ToUpper(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Candidate, 0, n)
	for _, c := range s.options {
		if c.Symbol == symbol {
			c.Score = 0
			c.Signals = nil
			out = append(out, c)
		}
	}
	return limit(out, n)
}

func (s *Store) AddTrade(user string, pos models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[user] = append(s.trades[user], trade{
		position:     pos,
		currentPrice: s.currentOptionPrice(pos),
		fee:          brokerFee * float64(pos.Contracts),
	})
}

func (s *Store) Portfolio(user string) []models.PortfolioEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PortfolioEntry, 0, len(s.trades[user]))
	for _, t := range s.trades[user] {
		p := t.position
		out = append(out, models.PortfolioEntry{
			Symbol:       p.Symbol,
			Type:         p.Type,
			Strike:       p.Strike,
			EntryPrice:   p.Price,
			CurrentPrice: t.currentPrice,
			PnL:          (t.currentPrice-p.Price)*float64(p.Contracts)*100 - t.fee,
			Contracts:    p.Contracts,
			StopLoss:     p.StopLoss,
			TargetPrice:  p.TargetPrice,
		})
	}
	return out
}

// currentOptionPrice looks up the matching option leg, falling back to the
// entry price. Caller holds the lock.
func (s *Store) currentOptionPrice(pos models.Position) float64 {
	for _, c := range s.options {
		leg, ok := c.Instrument.(models.SingleLeg)
		if ok && c.Symbol == pos.Symbol && c.Type == pos.Type && leg.Strike == pos.Strike {
			return c.Price
		}
	}
	return pos.Price
}

func withDetails(c models.Candidate, details map[string]float64) (json.RawMessage, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["details"] = details
	return json.Marshal(fields)
}

func limit(list []models.Candidate, n int) []models.Candidate {
	if len(list) > n {
		return list[:n]
	}
	return list
}
