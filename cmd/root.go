package cmd

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/agentdeck/internal/app"
	"github.com/zhubert/agentdeck/internal/config"
	"github.com/zhubert/agentdeck/internal/gateway"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/telemetry"
)

var (
	debugMode             bool
	quietMode             bool
	apiURL                string
	logFile               string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "agentdeck",
	Short: "Terminal client for the Prometheus agent backend",
	Long: `agentdeck is a terminal client for a Prometheus agent backend.
Chat with the main agent, attach files, and browse agent configurations
and the actions the agent can run, each in its own tab.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API root (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", logger.DefaultLogPath, "Log file path")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("agentdeck %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("agentdeck %s\n", version)
}

// loadConfig reads the configuration and applies the --api-url flag.
func loadConfig() (*config.Config, error) {
	if err := logger.Init(logFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if apiURL != "" {
		cfg.SetAPIURL(apiURL)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newClient creates the backend client for cfg.
func newClient(cfg *config.Config) *gateway.Client {
	return gateway.New(gateway.Options{
		BaseURL:   cfg.GetAPIURL(),
		UserAgent: gateway.UserAgent(version),
	})
}

// withTelemetry runs fn with tracing exported when an OTLP endpoint is set.
func withTelemetry(ctx context.Context, cfg *config.Config, fn func() error) error {
	shutdown, err := telemetry.Setup(ctx, cfg.GetOTelEndpoint(), version)
	if err != nil {
		logger.WithComponent("CLI").Warn("tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.WithComponent("CLI").Warn("trace flush failed", "error", err)
		}
	}()
	return fn()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	return withTelemetry(cmd.Context(), cfg, func() error {
		m := app.New(cfg, newClient(cfg), version)
		p := tea.NewProgram(m)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running app: %w", err)
		}
		return nil
	})
}
