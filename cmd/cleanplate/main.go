package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/AdamMoses-GitHub/cleanplate/goquery"
	cphttp "github.com/AdamMoses-GitHub/cleanplate/http"
	"github.com/AdamMoses-GitHub/cleanplate/jsonld"
	"github.com/AdamMoses-GitHub/cleanplate/pipeline"
	cpslog "github.com/AdamMoses-GitHub/cleanplate/slog"
	"github.com/AdamMoses-GitHub/cleanplate/sqlite"
	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Cache database path, used when no --db flag is given.
	DBPath string

	// SQLite database backing the batch cache. Opened only for batch.
	DB *sqlite.DB

	// Stdin is read by "batch -".
	Stdin io.Reader

	// Overrides for end-to-end testing. Nil means the HTTP implementations.
	Fetcher   cleanplate.Fetcher
	Validator cleanplate.URLValidator
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cleanplate"),
		kong.Description("Extract clean recipes from recipe web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'cleanplate --help' to see available commands")
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

	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}
	deps.Logger = logger

	strictness, err := cleanplate.ParseStrictness(cli.Strictness)
	if err != nil {
		return err
	}

	validator := m.Validator
	if validator == nil {
		validator = cphttp.NewURLValidator()
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		opts := append(cli.fetcherOptions(), cphttp.WithValidator(validator), cphttp.WithDialGuard(true))
		fetcher = cphttp.NewFetcher(opts...)
	}
	defer fetcher.Close()

	filter := cleanplate.NewIngredientFilter(strictness)
	svc := &pipeline.Service{
		Fetcher:    cpslog.NewLoggingFetcher(fetcher, logger),
		Structured: cpslog.NewLoggingExtractor(jsonld.NewExtractor(filter), logger),
		DOM:        cpslog.NewLoggingExtractor(goquery.NewExtractor(filter), logger),
		Validator:  validator,
		DebugLog:   stderr,
	}
	deps.Service = cpslog.NewLoggingService(svc, logger)

	if strings.HasPrefix(kongCtx.Command(), "batch") && !cli.Batch.NoCache {
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CLEANPLATE_DB or --db to use a different cache path, or pass --no-cache\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		defer m.Close()

		deps.Cache = sqlite.NewExtractionCache(m.DB, sqlite.WithMaxAge(cli.Batch.MaxAge))
	}

	return kongCtx.Run(deps)
}

// newLogger builds the slog handler selected by level and format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("CLEANPLATE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cleanplate.db"
	}
	dir := filepath.Join(home, ".cleanplate")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
