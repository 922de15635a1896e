package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shadowstrike/options-client/internal/config"
	"github.com/shadowstrike/options-client/pkg/backend"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "shadowstrike",
		Short:             "Options trading assistant client",
		Long:              `Browse market data and scanner picks, and track option trades in your ShadowStrike portfolio`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(
		newMarketCmd(),
		newTop10Cmd(),
		newScanCmd(),
		newChainCmd(),
		newAddCmd(),
		newPortfolioCmd(),
		newScenarioCmd(),
		newLoginCmd(),
		newRegisterCmd(),
		newResetPasswordCmd(),
		newColorCmd(),
		newDevServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using INFO")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
	}
	return nil
}

func newClient() (*backend.Client, error) {
	return backend.NewClient(cfg.API.BaseURL,
		backend.WithLogger(logger),
		backend.WithTimeout(cfg.API.Timeout),
		backend.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
	)
}

// sessionClient returns a client that is logged in when credentials are
// configured.
func sessionClient(ctx context.Context) (*backend.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	if !cfg.HasCredentials() {
		logger.Debug("No credentials configured, continuing without a session")
		return client, nil
	}
	if err := client.Login(ctx, credentials()); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	logger.WithField("email", cfg.Auth.Email).Debug("Logged in")
	return client, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
