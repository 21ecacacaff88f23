package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/workbench/internal/config"
	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/history"
	"github.com/studiowebux/workbench/internal/logging"
	"github.com/studiowebux/workbench/internal/markup"
	"github.com/studiowebux/workbench/internal/metrics"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// RunOptions contains options for running actions in CLI mode
type RunOptions struct {
	Server  string
	Action  string   // first action
	Then    []string // actions chained after the first
	File    string   // source file, "-" for stdin
	Example string   // example name for load
	Channel string   // channel selection for synthesis

	OutputFormat string // text, json, yaml
	GraphOut     string // write the Graphviz text of a state machine here
	Color        bool   // convert server markup to terminal styles

	Client    executor.Options
	Ordering  workbench.Ordering
	Endpoints map[types.Action]types.Endpoint
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	History   *history.Manager // nil disables recording

	// Prompt lets the user pick a missing example or channel
	Prompt bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Report is what a run prints
type Report struct {
	Actions []types.Action `json:"actions" yaml:"actions"`
	Kind    string         `json:"kind" yaml:"kind"`
	Output  string         `json:"output" yaml:"output"`
	Source  string         `json:"source,omitempty" yaml:"source,omitempty"`
	Elapsed string         `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Timing  string         `json:"timing,omitempty" yaml:"timing,omitempty"`
	Overlay *OverlayReport `json:"overlay,omitempty" yaml:"overlay,omitempty"`
}

// OverlayReport is the content of the overlay opened by the last chained action
type OverlayReport struct {
	Kind     string `json:"kind" yaml:"kind"`
	Output   string `json:"output" yaml:"output"`
	Elapsed  string `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Global   string `json:"global,omitempty" yaml:"global,omitempty"`
	Machines string `json:"machines,omitempty" yaml:"machines,omitempty"`
}

// Run executes the requested actions in order and prints the final display state.
// It stops at the first refused or failed action.
func Run(ctx context.Context, opts RunOptions) error {
	opts = withDefaults(opts)

	actions, err := parseActions(opts.Action, opts.Then)
	if err != nil {
		return err
	}

	client, err := executor.NewClient(opts.Server, opts.Client)
	if err != nil {
		return err
	}

	timing := &workbench.Timing{}
	wb := workbench.New(client, workbench.Options{
		Endpoints: opts.Endpoints,
		Ordering:  opts.Ordering,
		Timing:    timing,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})

	if opts.File != "" {
		src, err := readSource(opts.File, opts.Stdin)
		if err != nil {
			return err
		}
		wb.SetSource(src)
	}

	for _, action := range actions {
		params, err := resolveParams(ctx, client, action, opts)
		if err != nil {
			return err
		}

		c, err := wb.Run(ctx, action, params)
		recordHistory(opts, client.BaseURL(), wb, c)
		if err != nil {
			return fmt.Errorf("%s failed: %w", action, err)
		}
	}

	report := buildReport(wb, timing, actions)

	if opts.GraphOut != "" {
		if err := writeGraph(opts.GraphOut, wb.Artifact()); err != nil {
			return err
		}
		fmt.Fprintf(opts.Stderr, "Graph saved to %s\n", opts.GraphOut)
	}

	output, err := formatReport(report, opts.OutputFormat, markupFunc(opts.Color))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(opts.Stdout, output)

	if report.Timing != "" && opts.OutputFormat == "text" {
		fmt.Fprintln(opts.Stderr, report.Timing)
	}
	return nil
}

func withDefaults(opts RunOptions) RunOptions {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = "text"
	}
	if opts.Client.Logger == nil {
		opts.Client.Logger = opts.Logger
	}
	return opts
}

func parseActions(first string, then []string) ([]types.Action, error) {
	names := append([]string{first}, then...)
	actions := make([]types.Action, 0, len(names))
	for _, name := range names {
		action, ok := types.ParseAction(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: %q (want one of %s)", workbench.ErrUnknownAction, name, actionList())
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func actionList() string {
	names := make([]string, len(types.AllActions))
	for i, a := range types.AllActions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// readSource reads the program from a file or, for "-", from stdin
func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(b), nil
}

// resolveParams fills the example or channel an action needs, prompting when allowed
func resolveParams(ctx context.Context, client *executor.Client, action types.Action, opts RunOptions) (workbench.Params, error) {
	p := workbench.Params{Example: opts.Example, Channel: opts.Channel}

	switch action {
	case types.ActionLoadExample:
		if p.Example != "" {
			return p, nil
		}
		if !opts.Prompt {
			return p, fmt.Errorf("%w: use --example", workbench.ErrNoExample)
		}
		cat, err := client.Discover(ctx)
		if err != nil {
			return p, fmt.Errorf("failed to list examples: %w", err)
		}
		choice, err := promptForOption("Select example", cat.Examples, "")
		if err != nil {
			return p, err
		}
		p.Example = choice

	case types.ActionSynthesize:
		if p.Channel != "" {
			return p, nil
		}
		if !opts.Prompt {
			return p, fmt.Errorf("synthesis needs a channel selection: use --chan")
		}
		cat, err := client.Discover(ctx)
		if err != nil {
			return p, fmt.Errorf("failed to list channels: %w", err)
		}
		choice, err := promptForOption("Select channel", cat.Channels, "")
		if err != nil {
			return p, err
		}
		p.Channel = choice
	}
	return p, nil
}

func recordHistory(opts RunOptions, server string, wb *workbench.Workbench, c workbench.Completion) {
	if opts.History == nil || !history.Recordable(c) {
		return
	}
	if _, err := opts.History.Save(history.EntryFor(server, wb, c)); err != nil {
		// Don't fail the run if history save fails
		opts.Logger.Warn("failed to save history", "error", err)
	}
}

func buildReport(wb *workbench.Workbench, timing *workbench.Timing, actions []types.Action) Report {
	art := wb.Artifact()
	r := Report{
		Actions: actions,
		Kind:    art.Kind.String(),
		Output:  art.Text,
		Elapsed: art.Elapsed,
		Timing:  timing.Text(),
	}

	last := actions[len(actions)-1]
	switch last {
	case types.ActionLoadExample:
		r.Source = wb.Source().Text()
	case types.ActionGenerateCode, types.ActionSynthesize:
		kind := workbench.OverlayCodegen
		if last == types.ActionSynthesize {
			kind = workbench.OverlaySynthesis
		}
		o := wb.Overlays().Get(kind)
		sec := o.Artifact()
		r.Overlay = &OverlayReport{
			Kind:     kind.String(),
			Output:   o.Output().Text(),
			Elapsed:  sec.Elapsed,
			Global:   sec.Global,
			Machines: sec.Machines,
		}
	}
	return r
}

func writeGraph(path string, art types.Artifact) error {
	if art.Graph == "" {
		return fmt.Errorf("no graph to save: %s output has no Graphviz text", art.Kind)
	}
	if err := os.WriteFile(path, []byte(art.Graph), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	return nil
}

func markupFunc(color bool) func(string) string {
	if color {
		return markup.New(nil).Convert
	}
	return markup.Strip
}

// formatReport formats the report based on the output format
func formatReport(r Report, format string, display func(string) string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		body := r.Output
		switch {
		case r.Overlay != nil:
			body = r.Overlay.Output
		case r.Source != "":
			body = r.Source
		}
		body = display(body)
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return body, nil

	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// ExamplesOptions contains options for listing examples
type ExamplesOptions struct {
	Server       string
	Client       executor.Options
	OutputFormat string
	Fallback     []string // configured examples used when the index page cannot be read
	Logger       *slog.Logger
	Stdout       io.Writer
}

// ListExamples prints the examples and channels the server advertises
func ListExamples(ctx context.Context, opts ExamplesOptions) error {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Client.Logger == nil {
		opts.Client.Logger = opts.Logger
	}

	client, err := executor.NewClient(opts.Server, opts.Client)
	if err != nil {
		return err
	}

	cat, err := client.Discover(ctx)
	if err != nil {
		if len(opts.Fallback) == 0 {
			return fmt.Errorf("failed to read examples from %s: %w", client.BaseURL(), err)
		}
		opts.Logger.Warn("index page unavailable, using configured examples", "error", err)
		cat = executor.Catalog{Examples: fallbackOptions(opts.Fallback)}
	}

	switch opts.OutputFormat {
	case "json":
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	case "yaml":
		data, err := yaml.Marshal(cat)
		if err != nil {
			return err
		}
		_, err = opts.Stdout.Write(data)
		return err
	case "", "text":
		for _, e := range cat.Examples {
			fmt.Fprintln(opts.Stdout, e.Label)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", opts.OutputFormat)
	}
}

func fallbackOptions(names []string) []executor.Option {
	out := make([]executor.Option, len(names))
	for i, n := range names {
		out[i] = executor.Option{Value: n, Label: n}
	}
	return out
}

// HistoryOptions contains options for listing recorded analyses
type HistoryOptions struct {
	Limit        int
	Action       string
	OutputFormat string
	Stdout       io.Writer
}

// ListHistory prints recorded analyses, newest first
func ListHistory(mgr *history.Manager, opts HistoryOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	var (
		entries []types.HistoryEntry
		err     error
	)
	if opts.Action != "" {
		action, ok := types.ParseAction(opts.Action)
		if !ok {
			return fmt.Errorf("%w: %q", workbench.ErrUnknownAction, opts.Action)
		}
		entries, err = mgr.LoadForAction(action, opts.Limit)
	} else {
		entries, err = mgr.Load(opts.Limit)
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	switch opts.OutputFormat {
	case "json":
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		_, err = opts.Stdout.Write(data)
		return err
	case "", "text":
		if len(entries) == 0 {
			fmt.Fprintln(opts.Stdout, "No history entries")
			return nil
		}
		tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tACTION\tKIND\tOUTCOME\tELAPSED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Kind, e.Outcome, e.Elapsed)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", opts.OutputFormat)
	}
}

// ListStats prints per-action counts of recorded analyses
func ListStats(mgr *history.Manager, opts HistoryOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	stats, err := mgr.Stats()
	if err != nil {
		return err
	}

	switch opts.OutputFormat {
	case "json":
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "yaml":
		data, err := yaml.Marshal(stats)
		if err != nil {
			return err
		}
		_, err = opts.Stdout.Write(data)
		return err
	case "", "text":
		if len(stats) == 0 {
			fmt.Fprintln(opts.Stdout, "No history entries")
			return nil
		}
		tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ACTION\tRUNS\tOK\tMALFORMED\tTRANSPORT\tLAST RUN")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
				s.Action, s.Total, s.OK, s.Malformed, s.TransportErrors, s.LastRun.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", opts.OutputFormat)
	}
}
