package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
	"git.home.luguber.info/inful/mvdocs/internal/metrics"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "MVDOCS_LOG_LEVEL"

// Global is shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// NewGlobal returns globals printing user-facing output to out.
func NewGlobal(out io.Writer) *Global {
	return &Global{Logger: slog.Default(), Out: out}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"mvdocs.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build        BuildCmd        `cmd:"" help:"Build the documentation of the checked out sources"`
	Multiversion MultiversionCmd `cmd:"" help:"Build one documentation tree per configured branch and tag"`
	Versions     VersionsCmd     `cmd:"" help:"List the configured documentation versions"`
	Watch        WatchCmd        `cmd:"" help:"Rebuild the documentation whenever sources change"`
	Init         InitCmd         `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// parseLogLevel prefers -v, then MVDOCS_LOG_LEVEL, then info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(root.Config), slog.String("project", cfg.Project))
	return cfg, nil
}

// buildMetrics returns the recorder for cfg and a flush function exporting
// the metrics to the configured textfile. Both are no-ops when no textfile
// is configured.
func buildMetrics(cfg *config.Config) (metrics.Recorder, func()) {
	path := cfg.Metrics.Textfile
	if path == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return rec, func() {
		if err := metrics.WriteTextfile(path, reg); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
			return
		}
		slog.Debug("Wrote metrics textfile", logfields.Path(path))
	}
}

func requireArg(name, value string) error {
	if value == "" {
		return ferrors.ValidationError(name + " is required").Build()
	}
	return nil
}
