package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/workbench/internal/config"
	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/history"
	"github.com/studiowebux/workbench/internal/keybinds"
	"github.com/studiowebux/workbench/internal/logging"
	"github.com/studiowebux/workbench/internal/markup"
	"github.com/studiowebux/workbench/internal/metrics"
	"github.com/studiowebux/workbench/internal/session"
	"github.com/studiowebux/workbench/internal/workbench"
)

// Options wires the TUI to its collaborators. Config and Client are required.
type Options struct {
	Config   *config.Config
	Client   *executor.Client
	Keybinds *keybinds.Registry
	Session  *session.Manager
	History  *history.Manager // nil disables history
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Version  string

	// MessageTimeout clears status and error messages after a delay. Zero keeps them.
	MessageTimeout time.Duration
}

// New creates a new TUI model
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Config == nil || opts.Client == nil {
		return Model{}, fmt.Errorf("tui: config and client are required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	if opts.Session == nil {
		opts.Session = session.NewManager("")
	}

	wb := workbench.New(opts.Client, workbench.Options{
		Endpoints: opts.Config.EndpointTable(),
		Ordering:  opts.Config.OrderingMode(),
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWarning

	channel := opts.Session.GetSession().Channel
	if channel == "" {
		channel = opts.Config.PickChannel(opts.Config.Channels)
	}

	m := Model{
		wb:              wb,
		client:          opts.Client,
		cfg:             opts.Config,
		keybinds:        opts.Keybinds,
		sessionMgr:      opts.Session,
		historyManager:  opts.History,
		markup:          markup.New(nil),
		logger:          opts.Logger,
		ctx:             ctx,
		mode:            ModeNormal,
		version:         opts.Version,
		editor:          editor,
		sourceView:      viewport.New(80, 20),
		outputView:      viewport.New(80, 20),
		overlayView:     viewport.New(80, 20),
		modalView:       viewport.New(80, 20),
		helpView:        viewport.New(80, 20),
		spinner:         sp,
		catalog:         fallbackCatalog(opts.Config),
		channel:         channel,
		picker:          NewPickerState(),
		historyState:    NewHistoryState(),
		focusedPanel:    focusSource,
		showLineNumbers: true,
		messageTimeout:  opts.MessageTimeout,
	}
	m.refreshViews()

	return m, nil
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	// Start TUI (pass pointer since Update uses pointer receiver)
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	if err := m.sessionMgr.Save(); err != nil {
		m.logger.Warn("failed to save session", "error", err)
	}
	return nil
}

// fallbackCatalog lists the configured selectors until the server index is read
func fallbackCatalog(cfg *config.Config) executor.Catalog {
	var cat executor.Catalog
	for _, e := range cfg.Examples {
		cat.Examples = append(cat.Examples, executor.Option{Value: e, Label: e})
	}
	for _, c := range cfg.Channels {
		cat.Channels = append(cat.Channels, executor.Option{Value: c, Label: c})
	}
	return cat
}
