package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

// setupLogger creates a JSON slog logger writing to stderr so stdout stays
// clean for command output.
func setupLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// printJSON marshals v and prints it to stdout, optionally running it through
// a jq filter expression first.
func printJSON(v any, filter string) error {
	if filter == "" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	results, err := applyFilter(v, filter)
	if err != nil {
		return err
	}
	for _, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal filtered output: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

// applyFilter runs a gojq expression over v (via a JSON round trip so gojq
// sees plain maps and slices) and returns the emitted values.
func applyFilter(v any, filter string) ([]any, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value for filtering: %w", err)
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value for filtering: %w", err)
	}

	var results []any
	iter := code.Run(input)
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := val.(error); isErr {
			return nil, fmt.Errorf("jq filter error: %w", err)
		}
		results = append(results, val)
	}
	return results, nil
}

// filterFlag is the shared --filter flag for JSON output commands.
func filterFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "jq expression applied to the JSON output",
	}
}
