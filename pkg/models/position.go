package models

// Position is the canonical record submitted to the portfolio endpoint. It is
// built once at confirmation and never mutated afterwards.
type Position struct {
	Symbol      string  `json:"symbol"`
	Type        string  `json:"type"`
	Strike      float64 `json:"strike"`
	Price       float64 `json:"price"`
	Contracts   int     `json:"contracts"`
	StopLoss    float64 `json:"stop_loss"`
	TargetPrice float64 `json:"target_price"`
}

// PortfolioEntry is a tracked position as returned by the backend, with
// pricing and P&L computed server-side.
type PortfolioEntry struct {
	Symbol       string  `json:"symbol"`
	Type         string  `json:"type"`
	Strike       float64 `json:"strike"`
	EntryPrice   float64 `json:"entry_price"`
	CurrentPrice float64 `json:"current_price"`
	PnL          float64 `json:"pnl"`
	Contracts    int     `json:"contracts"`
	StopLoss     float64 `json:"stop_loss"`
	TargetPrice  float64 `json:"target_price"`
}
