package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/workbench/internal/cli"
	"github.com/studiowebux/workbench/internal/config"
	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/history"
	"github.com/studiowebux/workbench/internal/keybinds"
	"github.com/studiowebux/workbench/internal/logging"
	"github.com/studiowebux/workbench/internal/metrics"
	"github.com/studiowebux/workbench/internal/mock"
	"github.com/studiowebux/workbench/internal/session"
	"github.com/studiowebux/workbench/internal/tui"
	"github.com/studiowebux/workbench/internal/version"
)

var (
	appVersion = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "workbench",
	Short: "Analysis workbench for Go concurrency",
	Long: `workbench sends Go programs to an analysis server and shows what comes back:
SSA, communicating state machines (CFSM), MiGo types, Gong liveness checks
and global graph synthesis.

Run without arguments to start the TUI, or use 'run' to analyse a file from
the command line.

Examples:
  workbench                                  # Start interactive TUI
  workbench run cfsm -f main.go              # Extract state machines
  workbench run migo -f main.go --then gong  # MiGo types, then Gong
  workbench run cfsm -f main.go --then synthesis --channel 2
  workbench run load --example factorial     # Print an example program
  workbench examples                         # List server examples
  workbench serve-mock --port 6060           # Local stand-in server`,
	Version:       appVersion,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <action>",
	Short: "Run an analysis in CLI mode",
	Long: `Run one analysis action, optionally followed by chained actions, and print
the resulting output.

Actions: ssa, cfsm, migo, gong, synthesis, load.
gong needs MiGo output and synthesis needs CFSM output, so they are only
valid after migo and cfsm respectively.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCLI(cmd, args[0])
	},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the examples the analysis server offers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd, logging.New)
		if err != nil {
			return err
		}
		return cli.ListExamples(cmd.Context(), cli.ExamplesOptions{
			Server:       app.cfg.Server,
			Client:       app.clientOptions(),
			OutputFormat: flagOutput,
			Fallback:     app.cfg.Examples,
			Logger:       app.logger,
			Stdout:       cmd.OutOrStdout(),
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(cmd, logging.New); err != nil {
			return err
		}
		mgr, err := history.NewManager(config.DatabasePath)
		if err != nil {
			return err
		}
		defer mgr.Close()

		if flagHistoryClear {
			if err := mgr.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		}

		opts := cli.HistoryOptions{
			Limit:        flagHistoryLimit,
			Action:       flagHistoryAction,
			OutputFormat: flagOutput,
			Stdout:       cmd.OutOrStdout(),
		}
		if flagHistoryStats {
			return cli.ListStats(mgr, opts)
		}
		return cli.ListHistory(mgr, opts)
	},
}

var serveMockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Serve canned analysis replies for offline use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock(cmd)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Write an example keybinds.json to the config directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(cmd, logging.New); err != nil {
			return err
		}
		if err := keybinds.CreateExampleConfig(config.KeybindsFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", config.KeybindsFile)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "workbench", appVersion)
		if !flagCheckUpdate {
			return nil
		}

		release, newer, err := version.NewChecker().Check(cmd.Context(), appVersion)
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		if newer {
			fmt.Fprintf(out, "A newer release is available: %s (%s)\n", release.Version(), release.HTMLURL)
		} else {
			fmt.Fprintln(out, "You are running the latest release")
		}
		return nil
	},
}

// Global flags
var (
	flagServer      string
	flagConfig      string
	flagLogLevel    string
	flagMetricsAddr string
	flagTimeout     time.Duration
	flagOrdering    string
	flagOutput      string
)

// Flags for run
var (
	flagThen     []string
	flagFile     string
	flagExample  string
	flagChannel  string
	flagGraphOut string
	flagColor    bool
	flagPrompt   bool
)

// Flags for history
var (
	flagHistoryLimit  int
	flagHistoryAction string
	flagHistoryClear  bool
	flagHistoryStats  bool
)

// Flags for serve-mock
var (
	flagMockPort      int
	flagMockHost      string
	flagMockConfig    string
	flagMockLatency   time.Duration
	flagMockMalformed bool
)

var flagCheckUpdate bool

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagServer, "server", "", "Analysis server URL (default from config, "+config.DefaultServer+")")
	pf.StringVar(&flagConfig, "config", "", "Config file (default .workbench.yaml or ~/.workbench/config.yaml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	pf.StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Request timeout (default from config)")
	pf.StringVar(&flagOrdering, "ordering", "", "Completion ordering (drop-stale/last-writer-wins)")

	runCmd.Flags().StringArrayVar(&flagThen, "then", nil, "Chained action to run afterwards, can be repeated")
	runCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Go source file, - for stdin")
	runCmd.Flags().StringVar(&flagExample, "example", "", "Example name for load")
	runCmd.Flags().StringVar(&flagChannel, "channel", "", "Channel selection for synthesis")
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	runCmd.Flags().StringVar(&flagGraphOut, "graph-out", "", "Write the state machine graph (dot) to this file")
	runCmd.Flags().BoolVar(&flagColor, "color", false, "Render server markup as terminal colours")
	runCmd.Flags().BoolVarP(&flagPrompt, "prompt", "p", false, "Pick a missing example or channel interactively")

	examplesCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")

	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of entries")
	historyCmd.Flags().StringVar(&flagHistoryAction, "action", "", "Only list this action")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all entries")
	historyCmd.Flags().BoolVar(&flagHistoryStats, "stats", false, "Show per-action counts instead of entries")
	historyCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")

	serveMockCmd.Flags().IntVar(&flagMockPort, "port", 6060, "Listen port")
	serveMockCmd.Flags().StringVar(&flagMockHost, "host", "localhost", "Listen host")
	serveMockCmd.Flags().StringVar(&flagMockConfig, "mock-config", "", "Mock configuration file (.yaml or .json)")
	serveMockCmd.Flags().DurationVar(&flagMockLatency, "latency", 0, "Delay before every analysis reply")
	serveMockCmd.Flags().BoolVar(&flagMockMalformed, "malformed", false, "Reply with invalid JSON on record endpoints")

	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "Check for a newer release")

	rootCmd.AddCommand(runCmd, examplesCmd, historyCmd, serveMockCmd, keybindsCmd, versionCmd)
}

// app is the state shared by commands after configuration is loaded
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func (a *app) clientOptions() executor.Options {
	return executor.Options{
		Timeout: a.cfg.Timeout,
		TLS:     a.cfg.TLS,
		Logger:  a.logger,
	}
}

// setup initializes the config directory, loads settings and applies flag overrides.
// newLogger builds the logger once the level is known.
func setup(cmd *cobra.Command, newLogger func(slog.Level, io.Writer) *slog.Logger) (*app, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	path := flagConfig
	if path == "" {
		path = config.GetConfigFilePath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flagServer != "" {
		cfg.Server = flagServer
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagMetricsAddr != "" {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if flagTimeout > 0 {
		cfg.Timeout = flagTimeout
	}
	if flagOrdering != "" {
		cfg.Ordering = flagOrdering
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: newLogger(level, cmd.ErrOrStderr())}
	if cfg.MetricsAddr != "" {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = metrics.New(a.registry)
	}
	return a, nil
}

// serve runs fn, serving metrics alongside it when an address is configured.
// The metrics server is shut down once fn returns.
func (a *app) serve(ctx context.Context, fn func(context.Context) error) error {
	if a.registry == nil {
		return fn(ctx)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("serving metrics", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("metrics server shutdown", "error", err)
			}
		}()
		return fn(gctx)
	})
	return g.Wait()
}

// openHistory returns nil when history is disabled or the database cannot be opened
func (a *app) openHistory(sess *session.Manager) *history.Manager {
	if !sess.IsHistoryEnabled(a.cfg.HistoryEnabled) {
		return nil
	}
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		a.logger.Warn("history disabled", "error", err)
		return nil
	}
	return mgr
}

// runTUI starts the interactive TUI. Logs go to a file because the TUI owns the terminal.
func runTUI(cmd *cobra.Command) error {
	var logCloser io.Closer
	a, err := setup(cmd, func(level slog.Level, _ io.Writer) *slog.Logger {
		logger, closer, err := logging.NewFile(level, config.LogFile)
		if err != nil {
			return logging.NewNop()
		}
		logCloser = closer
		return logger
	})
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	client, err := executor.NewClient(a.cfg.Server, a.clientOptions())
	if err != nil {
		return err
	}

	kb, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		a.logger.Warn("using default keybinds", "error", err)
		kb = keybinds.NewDefaultRegistry()
	}
	if result := keybinds.NewValidator().ValidateRegistry(kb); result.HasWarnings() {
		a.logger.Warn("keybind warnings", "details", result.String())
	}

	sess := session.NewManager(config.SessionFile)
	if err := sess.Load(); err != nil {
		a.logger.Warn("failed to load session", "error", err)
	}

	opts := tui.Options{
		Config:         a.cfg,
		Client:         client,
		Keybinds:       kb,
		Session:        sess,
		History:        a.openHistory(sess),
		Logger:         a.logger,
		Metrics:        a.metrics,
		Version:        appVersion,
		MessageTimeout: 5 * time.Second,
	}

	return a.serve(cmd.Context(), func(ctx context.Context) error {
		return tui.Run(ctx, opts)
	})
}

// runCLI runs action and the chained actions given with --then
func runCLI(cmd *cobra.Command, action string) error {
	a, err := setup(cmd, logging.New)
	if err != nil {
		return err
	}

	sess := session.NewManager(config.SessionFile)
	if err := sess.Load(); err != nil {
		a.logger.Warn("failed to load session", "error", err)
	}
	hist := a.openHistory(sess)
	if hist != nil {
		defer hist.Close()
	}

	channel := flagChannel
	if channel == "" && !flagPrompt {
		channel = sess.GetSession().Channel
		if channel == "" {
			channel = a.cfg.DefaultChannel
		}
	}

	opts := cli.RunOptions{
		Server:       a.cfg.Server,
		Action:       action,
		Then:         flagThen,
		File:         flagFile,
		Example:      flagExample,
		Channel:      channel,
		OutputFormat: flagOutput,
		GraphOut:     flagGraphOut,
		Color:        flagColor,
		Client:       a.clientOptions(),
		Ordering:     a.cfg.OrderingMode(),
		Endpoints:    a.cfg.EndpointTable(),
		Logger:       a.logger,
		Metrics:      a.metrics,
		History:      hist,
		Prompt:       flagPrompt,
		Stdin:        cmd.InOrStdin(),
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	}

	return a.serve(cmd.Context(), func(ctx context.Context) error {
		return cli.Run(ctx, opts)
	})
}

// runMock serves the mock analysis server until interrupted
func runMock(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level, cmd.ErrOrStderr())

	cfg := &mock.Config{Logging: true}
	if flagMockConfig != "" {
		cfg, err = mock.LoadConfig(flagMockConfig)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		cfg.Port = flagMockPort
	}
	if cmd.Flags().Changed("host") || cfg.Host == "" {
		cfg.Host = flagMockHost
	}
	if flagMockLatency > 0 {
		cfg.Latency = mock.Duration(flagMockLatency)
	}
	if flagMockMalformed {
		cfg.Malformed = true
	}

	srv := mock.NewServer(cfg, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mock analysis server on %s (Ctrl+C to stop)\n", srv.GetAddress())

	<-cmd.Context().Done()
	return srv.Stop()
}
