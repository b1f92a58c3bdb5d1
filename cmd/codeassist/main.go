// Package main is the entry point for the codeassist CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codeassist/internal/assist"
	"github.com/dshills/codeassist/internal/config"
	"github.com/dshills/codeassist/internal/diffview"
	"github.com/dshills/codeassist/internal/gateway"
	"github.com/dshills/codeassist/internal/host"
	"github.com/dshills/codeassist/internal/logging"
	"github.com/dshills/codeassist/internal/text"
	"github.com/dshills/codeassist/internal/trigger"
	"github.com/dshills/codeassist/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath  string
	LogLevel    string
	Provider    string
	Model       string
	Focus       string
	ActionsFile string
	AutoSave    bool
	Assume      string // "", "accept", or "reject"
	Action      string
	File        string
	Range       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlagOverrides(cfg, opts)

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging().Level),
		Output: os.Stderr,
		Prefix: "codeassist",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, closeGateway, err := buildGateway(ctx, cfg.AI(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeGateway()

	ws := host.NewWorkspace()
	notifier := tui.NewConsoleNotifier(os.Stdout)
	assistCfg := cfg.Assist()

	manager := assist.NewManager(ws, notifier, logger, assist.Options{
		ShowInlineDecorations: assistCfg.ShowInlineDecorations,
		AutoSave:              assistCfg.AutoSave,
	})
	defer manager.Dispose()

	dispatcher := trigger.NewDispatcher(gw, manager, ws, notifier, logger, gateway.Focus(assistCfg.Focus))
	if assistCfg.ActionsFile != "" {
		if err := dispatcher.LoadActionsFile(assistCfg.ActionsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	rng, err := parseRange(opts.Range)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	err = dispatcher.Dispatch(ctx, trigger.Command{
		Action:     opts.Action,
		DocumentID: host.DocumentID(opts.File),
		Range:      rng,
	})
	if err != nil {
		logger.Error("dispatch failed: %v", err)
		return 1
	}

	if manager.State() != assist.StatePresented {
		return 0
	}
	return resolveSuggestion(ctx, manager, ws, opts.Assume)
}

// resolveSuggestion settles the pending suggestion: immediately when an
// outcome was preselected, otherwise through an interactive diff review.
func resolveSuggestion(ctx context.Context, manager *assist.Manager, ws *host.Workspace, assume string) int {
	decision := tui.DecisionReject

	switch assume {
	case "accept":
		decision = tui.DecisionAccept
	case "reject":
	default:
		session, ok := ws.CurrentDiff()
		if !ok {
			pending, _ := manager.Pending()
			doc, err := ws.ResolveDocument(ctx, pending.DocumentID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			right := doc.Text()[:pending.Range.Start] + pending.ReplacementText + doc.Text()[pending.Range.End:]
			session = diffview.New(string(pending.DocumentID), doc.Text(), right)
		}
		var err error
		decision, err = reviewInteractively(session)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var err error
	if decision == tui.DecisionAccept {
		err = manager.Accept(ctx)
	} else {
		err = manager.Reject(ctx)
	}
	if err != nil {
		return 1
	}
	return 0
}

func reviewInteractively(session *diffview.Session) (tui.Decision, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return tui.DecisionReject, fmt.Errorf("create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return tui.DecisionReject, fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return tui.NewReviewScreen(screen, session).Run()
}

// buildGateway selects the AI provider. The returned func releases provider
// resources and is always safe to call.
func buildGateway(ctx context.Context, ai config.AIConfig, logger *logging.Logger) (gateway.Gateway, func(), error) {
	noop := func() {}
	switch ai.Provider {
	case "ollama":
		g := gateway.NewOllama(gateway.OllamaConfig{
			Endpoint: ai.Endpoint,
			Model:    ai.Model,
			Timeout:  time.Duration(ai.TimeoutSeconds) * time.Second,
		}, logger)
		return g, noop, nil
	case "anthropic":
		return gateway.NewAnthropic(ai.APIKey(), ai.Model, int64(ai.MaxTokens)), noop, nil
	case "openai":
		return gateway.NewOpenAI(ai.APIKey(), ai.Model), noop, nil
	case "google":
		g, err := gateway.NewGoogle(ctx, ai.APIKey(), ai.Model)
		if err != nil {
			return nil, noop, err
		}
		return g, func() { _ = g.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown AI provider %q", ai.Provider)
}

// parseRange parses "start:end" byte offsets. Empty selects the whole file.
func parseRange(s string) (text.Range, error) {
	if s == "" {
		return text.Range{}, nil
	}
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return text.Range{}, fmt.Errorf("invalid range %q (want start:end)", s)
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return text.Range{}, fmt.Errorf("invalid range start %q", startStr)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return text.Range{}, fmt.Errorf("invalid range end %q", endStr)
	}
	r := text.Range{Start: text.ByteOffset(start), End: text.ByteOffset(end)}
	if !r.IsValid() {
		return text.Range{}, fmt.Errorf("invalid range %s", r)
	}
	return r, nil
}

func applyFlagOverrides(cfg *config.Config, opts options) {
	if opts.LogLevel != "" {
		_ = cfg.Set("logging.level", opts.LogLevel)
	}
	if opts.Provider != "" {
		_ = cfg.Set("ai.provider", opts.Provider)
	}
	if opts.Model != "" {
		_ = cfg.Set("ai.model", opts.Model)
	}
	if opts.Focus != "" {
		_ = cfg.Set("assist.focus", opts.Focus)
	}
	if opts.ActionsFile != "" {
		_ = cfg.Set("assist.actionsFile", opts.ActionsFile)
	}
	if opts.AutoSave {
		_ = cfg.Set("assist.autoSave", true)
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool
	var acceptAll bool
	var rejectAll bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Provider, "provider", "", "AI provider (ollama, anthropic, openai, google)")
	flag.StringVar(&opts.Model, "model", "", "Model name (provider default when empty)")
	flag.StringVar(&opts.Focus, "focus", "", "Review focus (security, performance, style, bugs)")
	flag.StringVar(&opts.ActionsFile, "actions", "", "Lua file defining custom actions")
	flag.BoolVar(&opts.AutoSave, "save", false, "Save the file after applying a suggestion")
	flag.BoolVar(&acceptAll, "yes", false, "Apply suggestions without interactive review")
	flag.BoolVar(&rejectAll, "dry-run", false, "Never apply, only show the proposed change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "codeassist - AI-assisted code editing\n\n")
		fmt.Fprintf(os.Stderr, "Usage: codeassist [options] <action> <file> [start:end]\n\n")
		fmt.Fprintf(os.Stderr, "Actions: explain, fix, refactor, document, test, review\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  codeassist fix main.go              Fix the whole file\n")
		fmt.Fprintf(os.Stderr, "  codeassist refactor main.go 120:340 Refactor a byte range\n")
		fmt.Fprintf(os.Stderr, "  codeassist -focus security review handler.go\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("codeassist %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	switch {
	case acceptAll && rejectAll:
		fmt.Fprintln(os.Stderr, "Error: -yes and -dry-run are mutually exclusive")
		os.Exit(1)
	case acceptAll:
		opts.Assume = "accept"
	case rejectAll:
		opts.Assume = "reject"
	}

	args := flag.Args()
	if len(args) < 2 || len(args) > 3 {
		flag.Usage()
		os.Exit(1)
	}
	opts.Action = args[0]
	opts.File = args[1]
	if len(args) == 3 {
		opts.Range = args[2]
	}

	return opts
}
