package api

import "github.com/shadowstrike/options-client/pkg/models"

func (s *Store) seed() {
	s.quotes = []models.StockQuote{
		{Symbol: "SPY", Price: 544.22, Change: 3.18, ChangePercent: 0.59, Volume: 61234000, MarketCap: 498.1e9},
		{Symbol: "QQQ", Price: 479.64, Change: 4.02, ChangePercent: 0.85, Volume: 38410000, MarketCap: 301.7e9},
		{Symbol: "AAPL", Price: 192.35, Change: -1.44, ChangePercent: -0.74, Volume: 52110000, MarketCap: 2.95e12},
		{Symbol: "NVDA", Price: 131.88, Change: 5.61, ChangePercent: 4.44, Volume: 312500000, MarketCap: 3.24e12},
		{Symbol: "TSLA", Price: 182.01, Change: -6.35, ChangePercent: -3.37, Volume: 97300000, MarketCap: 580.4e9},
	}

	type leg struct {
		symbol, kind, exp  string
		strike, price, itm float64
		signals            []string
	}
	legs := []leg{
		{"SPY", "CALL", "2025-06-20", 540, 9.85, 61.4, []string{"MACD Crossover (Bullish)"}},
		{"SPY", "PUT", "2025-06-20", 540, 5.10, 38.6, nil},
		{"QQQ", "CALL", "2025-06-20", 475, 10.20, 58.9, nil},
		{"QQQ", "PUT", "2025-06-20", 475, 6.05, 41.1, nil},
		{"GLD", "CALL", "2025-06-27", 215, 3.40, 52.3, []string{"Price/MA50 Crossover (Bullish)"}},
		{"GLD", "PUT", "2025-06-27", 215, 2.95, 47.7, nil},
		{"SLV", "CALL", "2025-06-27", 27, 0.82, 49.5, nil},
		{"SLV", "PUT", "2025-06-27", 27, 0.71, 50.5, nil},
		{"AAPL", "CALL", "2025-06-20", 180, 3.25, 66.0, nil},
	}
	for _, l := range legs {
		score := l.itm
		if len(l.signals) > 0 {
			score += 10
		}
		s.options = append(s.options, models.Candidate{
			Symbol:     l.symbol,
			Type:       l.kind,
			Expiration: l.exp,
			Price:      l.price,
			Signals:    l.signals,
			Score:      score,
			Instrument: models.SingleLeg{Strike: l.strike, Type: models.OptionType(l.kind), ProbabilityITM: l.itm, ProbabilityOTM: 100 - l.itm},
		})
	}

	s.spreads = []models.Candidate{
		{Symbol: "SPY", Type: "bull_call", Instrument: models.Spread{BuyStrike: 540, SellStrike: 545, Breakeven: 542.1, MaxProfit: 290, MaxLoss: 210, ProbabilityITM: 61.4}},
		{Symbol: "QQQ", Type: "bull_call", Instrument: models.Spread{BuyStrike: 475, SellStrike: 480, Breakeven: 477.3, MaxProfit: 270, MaxLoss: 230, ProbabilityITM: 58.9}},
	}

	for symbol, price := range map[string]float64{"SPY": 544.22, "QQQ": 479.64, "GLD": 216.10, "SLV": 27.40, "AAPL": 192.35} {
		s.lastPrice[symbol] = price
		s.stopLoss[symbol] = price * 0.97
	}
	s.stopLoss["AAPL"] = 171.4
}
