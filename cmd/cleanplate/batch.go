package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/AdamMoses-GitHub/cleanplate/pipeline"
	"github.com/goccy/go-json"
)

// Run executes the batch command. Each extracted envelope is printed to
// stdout as one JSON line; progress and the summary go to stderr.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls, err := c.readURLs(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stderr, "No URLs to extract.")
		return nil
	}

	im := &pipeline.Importer{
		Service: deps.Service,
		Cache:   deps.Cache,
		Pause:   c.Pause,
		Logger:  deps.Logger,
	}

	enc := json.NewEncoder(deps.Stdout)
	results, err := im.Run(deps.Ctx, urls, func(e pipeline.ProgressEvent) {
		switch e.Type {
		case pipeline.ProgressCompleted:
			status := "ok"
			if e.Cached {
				status = "cached"
			}
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s %s\n", e.Completed, e.Total, status, e.URL)
		case pipeline.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] failed %s: %s (%s)\n",
				e.Completed, e.Total, e.URL, cleanplate.ErrorMessage(e.Error), cleanplate.ErrorCode(e.Error))
		}
	})
	for _, r := range results {
		if r.Envelope == nil {
			continue
		}
		if encErr := enc.Encode(r.Envelope); encErr != nil {
			return fmt.Errorf("encode envelope: %w", encErr)
		}
	}

	s := pipeline.Summarize(results)
	fmt.Fprintf(deps.Stderr, "Extracted %d, cached %d, failed %d of %d URLs\n", s.Extracted, s.Cached, s.Failed, len(urls))
	return err
}

// readURLs reads one URL per line, skipping blank lines and # comments.
func (c *BatchCmd) readURLs(stdin io.Reader) ([]string, error) {
	r := stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parseURLList(r)
}

func parseURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
