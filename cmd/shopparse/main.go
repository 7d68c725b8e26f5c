package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/fs"
	"github.com/fwojciec/shopparse/goquery"
	"github.com/fwojciec/shopparse/htmltomarkdown"
	shopslog "github.com/fwojciec/shopparse/slog"
	"github.com/joho/godotenv"
)

func main() {
	// SHOPPARSE_* settings may come from a .env file. Variables already set
	// in the environment win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Wired from defaults when nil.
	Loader   shopparse.DocumentLoader
	Registry shopparse.ExtractorRegistry
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("shopparse"),
		kong.Description("Convert saved marketplace pages into product records"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'shopparse --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose, cli.LogFormat)

	deps.Loader = m.Loader
	if deps.Loader == nil {
		deps.Loader = fs.NewLoader(fs.WithURLFallback(goquery.CanonicalURL))
	}

	registry := m.Registry
	if registry == nil {
		r := goquery.NewRegistry(goquery.NewClassifier())
		goquery.RegisterDefaults(r, htmltomarkdown.NewConverter())
		registry = r
	}
	deps.Registry = shopslog.NewLoggingRegistry(registry, deps.Logger)

	return kongCtx.Run(deps)
}

// newLogger returns the diagnostics logger. Skipped items are logged at
// warning level; per-document traces need --verbose.
func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
