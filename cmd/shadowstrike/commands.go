package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shadowstrike/options-client/api"
	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/shadowstrike/options-client/pkg/render"
	"github.com/shadowstrike/options-client/pkg/screen"
	"github.com/spf13/cobra"
)

func newMarketCmd() *cobra.Command {
	var watch bool
	var detail string

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Show top movers and the market session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			show := func(v screen.MarketView) {
				if err := render.Market(out, v.Status, v.LastUpdate, v.Quotes); err != nil {
					logger.WithError(err).Error("Failed to render market data")
				}
				if detail == "" {
					return
				}
				for _, q := range v.Quotes {
					if strings.EqualFold(q.Symbol, detail) {
						fmt.Fprintf(out, "\n%s Details\n%s\n", q.Symbol, render.QuoteDetail(q))
					}
				}
			}

			ms := screen.NewMarketScreen(client, render.Notifier{W: cmd.ErrOrStderr()}, logger,
				screen.WithInterval(cfg.Refresh.MarketInterval),
				screen.WithOnUpdate(func(v screen.MarketView) {
					if watch {
						show(v)
						fmt.Fprintln(out)
					}
				}),
			)

			if !watch {
				if err := ms.Refresh(cmd.Context()); err != nil {
					return err
				}
				show(ms.View())
				return nil
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// Requests run on the command context so an interrupt unmounts
			// before anything in flight is cancelled.
			if err := ms.Mount(cmd.Context()); err != nil {
				return err
			}
			<-ctx.Done()
			ms.Unmount()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().StringVar(&detail, "detail", "", "also print details for this symbol")
	return cmd
}

func newTop10Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top10",
		Short: "List the daily top picks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			top := screen.NewTop10Screen(client, client, client, render.Notifier{W: cmd.ErrOrStderr()}, logger)
			if err := top.Load(cmd.Context()); err != nil {
				return err
			}
			render.Candidates(cmd.OutOrStdout(), top.Picks())
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run the high-probability options scanner",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			sc := screen.NewScannerScreen(client, client, render.Notifier{W: cmd.ErrOrStderr()}, logger)
			return sc.Run(cmd.Context())
		},
	}
}

func newChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain SYMBOL",
		Short: "Search the option chain for one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			sc := screen.NewScannerScreen(client, client, render.Notifier{W: cmd.ErrOrStderr()}, logger)
			if err := sc.Search(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Options Chain\n", sc.Selected())
			render.Candidates(cmd.OutOrStdout(), sc.Results())
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var from, symbol, contracts string
	var index int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a top pick or option chain result to the portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient(cmd.Context())
			if err != nil {
				return err
			}
			notifier := render.Notifier{W: cmd.ErrOrStderr()}

			var pos models.Position
			switch from {
			case "top10":
				top := screen.NewTop10Screen(client, client, client, notifier, logger)
				if err := top.Load(cmd.Context()); err != nil {
					return err
				}
				pos, err = top.Add(cmd.Context(), index, contracts)
			case "chain":
				sc := screen.NewScannerScreen(client, client, notifier, logger)
				if err := sc.Search(cmd.Context(), symbol); err != nil {
					return err
				}
				pos, err = sc.Add(cmd.Context(), index, contracts)
			default:
				return fmt.Errorf("unknown source %q (expected top10 or chain)", from)
			}
			if err != nil {
				return err
			}

			render.Position(cmd.OutOrStdout(), pos)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "top10", "candidate source: top10 or chain")
	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "symbol for --from chain")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "candidate number as listed")
	cmd.Flags().StringVarP(&contracts, "contracts", "n", "", "number of contracts")
	cmd.MarkFlagRequired("contracts")
	return cmd
}

func newPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show tracked positions with current P&L",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient(cmd.Context())
			if err != nil {
				return err
			}
			ps := screen.NewPortfolioScreen(client, render.Notifier{W: cmd.ErrOrStderr()}, logger)
			if err := ps.Load(cmd.Context()); err != nil {
				return err
			}
			return render.Portfolio(cmd.OutOrStdout(), ps.Entries())
		},
	}
}

func newScenarioCmd() *cobra.Command {
	var symbol string
	var target float64

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Rank a symbol's options against a hypothetical target price",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(symbol) == "" {
				return screen.ErrEmptySymbol
			}
			if target <= 0 {
				return errors.New("target must be positive")
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			results, err := client.TradeScenario(cmd.Context(), symbol, target)
			if err != nil {
				return err
			}
			render.Candidates(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "symbol to evaluate")
	cmd.Flags().Float64Var(&target, "target", 0, "target underlying price")
	return cmd
}

func credentials() models.Credentials {
	return models.Credentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password}
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check that the configured credentials are accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.HasCredentials() {
				return errors.New("auth.email and auth.password must be configured")
			}
			if _, err := sessionClient(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful")
			return nil
		},
	}
	bindAuthFlags(cmd)
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.HasCredentials() {
				return errors.New("email and password are required")
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			reg := models.Registration{
				Email:    cfg.Auth.Email,
				Password: cfg.Auth.Password,
				Username: cfg.Auth.Username,
				Color:    cfg.Auth.Color,
			}
			if err := client.Register(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful")
			return nil
		},
	}
	bindAuthFlags(cmd)
	cmd.Flags().StringVar(&authFlags.username, "username", "", "display name")
	cmd.Flags().StringVar(&authFlags.color, "color", "", "theme color (e.g. #10b981)")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Send a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Auth.Email == "" {
				return errors.New("email is required")
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.ResetPassword(cmd.Context(), cfg.Auth.Email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset email sent")
			return nil
		},
	}
	bindAuthFlags(cmd)
	return cmd
}

func newColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color HEX",
		Short: "Update the account theme color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.UpdateColor(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Color updated")
			return nil
		},
	}
}

func newDevServerCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Serve an in-memory backend for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}
			return api.NewServer(api.NewStore(), logger, strconv.Itoa(port)).Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port")
	return cmd
}

var authFlags struct {
	email    string
	password string
	username string
	color    string
}

// bindAuthFlags lets flags override the configured account fields. The
// overrides are applied in PreRun, after configuration has been loaded.
func bindAuthFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&authFlags.email, "email", "", "account email")
	cmd.Flags().StringVar(&authFlags.password, "password", "", "account password")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if authFlags.email != "" {
			cfg.Auth.Email = authFlags.email
		}
		if authFlags.password != "" {
			cfg.Auth.Password = authFlags.password
		}
		if authFlags.username != "" {
			cfg.Auth.Username = authFlags.username
		}
		if authFlags.color != "" {
			cfg.Auth.Color = authFlags.color
		}
	}
}
