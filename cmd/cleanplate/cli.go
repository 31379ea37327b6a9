package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	cphttp "github.com/AdamMoses-GitHub/cleanplate/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Service cleanplate.RecipeService

	// Cache is nil unless the batch command runs with caching enabled.
	Cache cleanplate.ExtractionCache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout      time.Duration     `default:"15s" env:"CLEANPLATE_TIMEOUT" help:"Timeout of one page fetch"`
	MaxRedirects int               `default:"5" env:"CLEANPLATE_MAX_REDIRECTS" help:"Redirects followed per fetch"`
	MinDelay     time.Duration     `default:"2s" env:"CLEANPLATE_MIN_DELAY" help:"Minimum spacing of requests to one domain"`
	SSLVerify    bool              `default:"true" negatable:"" name:"ssl-verify" env:"CLEANPLATE_SSL_VERIFY" help:"Verify TLS certificates"`
	UserAgents   []string          `name:"user-agent" sep:"|" env:"CLEANPLATE_USER_AGENTS" help:"User-Agent pool to pick the session agent from, separated by |"`
	Headers      map[string]string `name:"header" env:"CLEANPLATE_HEADERS" help:"Extra request header as Name=Value (repeatable)"`
	Strictness   string            `default:"balanced" enum:"lenient,balanced,strict" env:"CLEANPLATE_STRICTNESS" help:"Ingredient noise filter strictness (${enum})"`
	DB           string            `name:"db" env:"CLEANPLATE_DB" help:"Cache database path (default ~/.cleanplate/cache.db)"`
	LogLevel     string            `default:"warn" enum:"debug,info,warn,error" env:"CLEANPLATE_LOG_LEVEL" help:"Log level (${enum})"`
	LogFormat    string            `default:"text" enum:"text,json" env:"CLEANPLATE_LOG_FORMAT" help:"Log format (${enum})"`

	Extract ExtractCmd `cmd:"" help:"Extract the recipe at a URL and print it as JSON"`
	Batch   BatchCmd   `cmd:"" help:"Extract every URL listed in a file, one per line"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extraction API over HTTP"`
}

// fetcherOptions translates the global flags into fetcher options.
func (c *CLI) fetcherOptions() []cphttp.Option {
	opts := []cphttp.Option{
		cphttp.WithTimeout(c.Timeout),
		cphttp.WithMaxRedirects(c.MaxRedirects),
		cphttp.WithMinDomainDelay(c.MinDelay),
		cphttp.WithSSLVerify(c.SSLVerify),
	}
	if len(c.UserAgents) > 0 {
		opts = append(opts, cphttp.WithUserAgents(c.UserAgents))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, cphttp.WithHeaders(c.Headers))
	}
	return opts
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL     string `arg:"" help:"Recipe page URL"`
	Debug   bool   `short:"d" help:"Write FILTER and CONFIDENCE diagnostics to stderr"`
	Compact bool   `help:"Print the envelope on a single line"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File    string        `arg:"" help:"File with one URL per line, or - for stdin"`
	Pause   time.Duration `default:"2s" help:"Pause between two fetched URLs"`
	MaxAge  time.Duration `default:"0s" help:"Treat cached extractions older than this as misses (0 keeps them forever)"`
	NoCache bool          `help:"Extract every URL even if it is cached"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr            string        `default:":8080" env:"CLEANPLATE_ADDR" help:"Listen address"`
	ShutdownTimeout time.Duration `default:"10s" help:"Grace period for in-flight requests on shutdown"`
}
