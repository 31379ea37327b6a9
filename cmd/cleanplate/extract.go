package main

import (
	"fmt"

	"github.com/AdamMoses-GitHub/cleanplate"
	cpgin "github.com/AdamMoses-GitHub/cleanplate/gin"
	"github.com/goccy/go-json"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	env, err := deps.Service.Extract(deps.Ctx, c.URL, c.Debug)
	if err != nil {
		printError(deps, err)
		return err
	}

	var out []byte
	if c.Compact {
		out, err = json.Marshal(env)
	} else {
		out, err = json.MarshalIndent(env, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}

// printError writes the error and, for known codes, what to try next.
func printError(deps *Dependencies, err error) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", cleanplate.ErrorMessage(err))
	if code := cleanplate.ErrorCode(err); code != cleanplate.EINTERNAL {
		_, hint := cpgin.Remediation(code)
		fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
}
