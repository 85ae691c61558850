// Command validate checks the setup preset JSON files in a configs directory.
// It checks:
//   - JSON structure, rejecting unknown fields
//   - The engine's own preset rules (two players, name length, colors, chess icons)
//   - That both players end up with distinct names and icons after defaults are applied
//
// It exits with a non-zero status if any preset is invalid.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/dafuweng/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	result.info("Name: %s", config.Name)
	for i, p := range config.Players {
		setup := engine.NormalizeSetup(i, p)
		note := ""
		if p.Name == "" || p.Color == "" || p.Icon == "" {
			note = " (defaults applied)"
		}
		result.info("Player %d: %s %s %s%s", i+1, setup.Icon, setup.Name, setup.Color, note)
	}
	if config.Seed != 0 {
		result.info("Seed: %d (every session replays the same game)", config.Seed)
	} else {
		result.info("Seed: random per session")
	}

	return result
}

// validateDir validates every *.json file in dir and writes a report to out.
// It returns false if any preset is invalid.
func validateDir(dir string, out io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no *.json presets in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(out, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid, nil
}

var errInvalid = errors.New("some presets are invalid")

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate Dafuweng setup presets",
		ArgsUsage: "[file.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "directory containing preset JSON files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				failed := 0
				for _, file := range cmd.Args().Slice() {
					result := validateConfig(file)
					status := "✅"
					if !result.Valid {
						status = "❌"
						failed++
					}
					fmt.Fprintf(out, "%s %s: %s\n", status, result.File, strings.Join(result.Errors, "; "))
				}
				if failed > 0 {
					return fmt.Errorf("%d invalid preset(s)", failed)
				}
				return nil
			}

			ok, err := validateDir(cmd.String("dir"), out)
			if err != nil {
				return err
			}
			if !ok {
				return errInvalid
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
