package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/critiqhq/critiq/internal/config"
	"github.com/critiqhq/critiq/internal/criteria"
	"github.com/critiqhq/critiq/internal/gitctx"
	"github.com/critiqhq/critiq/internal/output"
	"github.com/critiqhq/critiq/internal/providers"
	"github.com/critiqhq/critiq/internal/review"
)

// Shared analyze flags
var (
	flagCriteria  string
	flagProvider  string
	flagModel     string
	flagFormat    string
	flagOut       string
	flagWeights   string
	flagFailBelow float64
	flagNoRedact  bool
	flagStaged    bool
	flagUnstaged  bool
	flagCommit    string
)

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCriteria, "criteria", "", "Criteria to evaluate (comma-separated keys; default: all)")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (gemini, anthropic, openai, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagWeights, "weights", "", "Criteria weights file path")
	cmd.Flags().Float64Var(&flagFailBelow, "fail-below", 0, "Exit 1 when the overall score falls below this value (0 disables)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "Analyze staged changes (index vs HEAD)")
	cmd.Flags().BoolVar(&flagUnstaged, "unstaged", false, "Analyze unstaged changes (working tree vs index)")
	cmd.Flags().StringVar(&flagCommit, "commit", "", "Analyze a specific commit")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagWeights != "" {
		m["weightsFile"] = flagWeights
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// buildSelection turns the --criteria flag into a criteria selection.
// An empty flag selects every criterion.
func buildSelection(spec string) (criteria.Selection, error) {
	keys := splitComma(spec)
	if len(keys) == 0 {
		return nil, nil
	}
	sel := make(criteria.Selection, len(keys))
	for _, k := range keys {
		sel[criteria.Key(k)] = true
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return sel, nil
}

func runAnalyze(code string, cfg config.Config) {
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	sel, err := buildSelection(flagCriteria)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	// A bad weights file should fail before the provider call is paid for.
	weights, err := criteria.LoadWeights(cfg.WeightsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	ctx := context.Background()

	result, err := review.Run(ctx, code, sel, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		switch {
		case providers.IsAuthError(err):
			exitCode = ExitAuthError
		case errors.Is(err, review.ErrEmptyInput):
			exitCode = ExitUsageError
		default:
			exitCode = ExitRuntimeError
		}
		return
	}

	if err := output.WriteResult(result, cfg.Format, flagOut, weights); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if flagFailBelow > 0 && result.OverallScore < flagFailBelow {
		fmt.Fprintf(os.Stderr, "Overall score %.1f is below threshold %.1f\n", result.OverallScore, flagFailBelow)
		exitCode = ExitLowScore
	}
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze code from a file or stdin",
	Long:  "Analyze a code snippet or git diff. Reads the named file, or stdin when no file (or \"-\") is given; --staged, --unstaged, and --commit pull the diff from the local repository instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		code, ok := readInput(args)
		if !ok {
			return nil
		}

		runAnalyze(code, cfg)
		return nil
	},
}

// readInput resolves the code to analyze: a local git diff when one of the
// git source flags is set, otherwise the named file or stdin. On failure it
// prints the error, sets the exit code, and reports false.
func readInput(args []string) (string, bool) {
	switch {
	case flagStaged:
		diff, err := gitctx.Staged(gitctx.DiffOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return "", false
		}
		return diff, true

	case flagUnstaged:
		diff, err := gitctx.Unstaged(gitctx.DiffOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return "", false
		}
		return diff, true

	case flagCommit != "":
		diff, err := gitctx.Commit(flagCommit, gitctx.DiffOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return "", false
		}
		return diff, true

	case len(args) == 0 || args[0] == "-":
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			exitCode = ExitRuntimeError
			return "", false
		}
		return string(content), true

	default:
		content, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
			exitCode = ExitRuntimeError
			return "", false
		}
		return string(content), true
	}
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}
