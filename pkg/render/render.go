// Package render formats client data for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/session"
)

// Notifier prints notices to a writer.
type Notifier struct {
	W io.Writer
}

func (n Notifier) Notify(title, message string) {
	fmt.Fprintf(n.W, "[%s] %s\n", title, message)
}

func Market(w io.Writer, status session.Status, lastUpdate time.Time, quotes []models.StockQuote) error {
	fmt.Fprintf(w, "Market: %s (%s)\n", status, status.Subtext())
	if !lastUpdate.IsZero() {
		fmt.Fprintf(w, "Last Update: %s\n", lastUpdate.Format("3:04:05 PM"))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tPRICE\tCHANGE\tCHANGE %\tVOLUME")
	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t$%.2f\t%s\t%s\t%s\n",
			q.Symbol, q.Price, signedMoney(q.Change), signedPercent(q.ChangePercent), humanize.Comma(q.Volume))
	}
	return tw.Flush()
}

// QuoteDetail is the expanded view of a single quote.
func QuoteDetail(q models.StockQuote) string {
	return fmt.Sprintf("Price: $%.2f\nChange: %s (%.2f%%)\nVolume: %s\nMarket Cap: $%.2fB",
		q.Price, signedMoney(q.Change), q.ChangePercent, humanize.Comma(q.Volume), q.MarketCap/1e9)
}

// Candidates prints one card per candidate, numbered from zero so the index
// can be passed back when adding a position.
func Candidates(w io.Writer, candidates []models.Candidate) {
	for i, c := range candidates {
		fmt.Fprintf(w, "#%d %s %s %s\n", i, c.Symbol, c.Type, strikeLabel(c))
		if c.Expiration != "" {
			fmt.Fprintf(w, "   Expiration: %s\n", c.Expiration)
		}
		fmt.Fprintf(w, "   Price: $%.2f\n", c.Price)
		fmt.Fprintf(w, "   Probability ITM: %g%%\n", c.ProbabilityITM())
		if sp, ok := c.Instrument.(models.Spread); ok && sp.MaxProfit != 0 {
			fmt.Fprintf(w, "   Max Profit: $%g\n   Max Loss: $%g\n   Breakeven: $%g\n", sp.MaxProfit, sp.MaxLoss, sp.Breakeven)
		}
		fmt.Fprintf(w, "   Signals: %s\n", Signals(c.Signals))
	}
}

// ScanLine is the one-line scanner summary of a candidate.
func ScanLine(c models.Candidate) string {
	line := fmt.Sprintf("%s %s", c.Symbol, c.Type)
	if leg, ok := c.Instrument.(models.SingleLeg); ok {
		line += fmt.Sprintf(" $%g", leg.Strike)
	}
	line += fmt.Sprintf(" - %g%%", c.ProbabilityITM())
	if sp, ok := c.Instrument.(models.Spread); ok && sp.MaxProfit != 0 {
		line += fmt.Sprintf(" (Spread: $%g)", sp.MaxProfit)
	}
	return line
}

func Signals(signals []string) string {
	if len(signals) == 0 {
		return "None"
	}
	return strings.Join(signals, ", ")
}

func Portfolio(w io.Writer, entries []models.PortfolioEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tTYPE\tSTRIKE\tENTRY\tCURRENT\tP&L\tCONTRACTS\tSTOP\tTARGET")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t$%g\t$%.2f\t$%.2f\t%s\t%d\t$%.2f\t$%.2f\n",
			e.Symbol, e.Type, e.Strike, e.EntryPrice, e.CurrentPrice, signedMoney(e.PnL),
			e.Contracts, e.StopLoss, e.TargetPrice)
	}
	return tw.Flush()
}

func Position(w io.Writer, p models.Position) {
	fmt.Fprintf(w, "%s %s $%g x%d @ $%.2f  stop $%.2f  target $%.2f\n",
		p.Symbol, p.Type, p.Strike, p.Contracts, p.Price, p.StopLoss, p.TargetPrice)
}

func strikeLabel(c models.Candidate) string {
	if c.Instrument == nil {
		return ""
	}
	return fmt.Sprintf("$%g", c.Instrument.EffectiveStrike())
}

func signedMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

func signedPercent(v float64) string {
	if v < 0 {
		return fmt.Sprintf("(%.2f%%)", v)
	}
	return fmt.Sprintf("(+%.2f%%)", v)
}
