package gitctx

import (
	"fmt"
	"os/exec"
	"strings"
)

// DiffOptions controls how diffs are gathered.
type DiffOptions struct {
	ContextLines int
	Paths        []string
}

// Unstaged returns the diff of working tree vs index.
func Unstaged(opts DiffOptions) (string, error) {
	diff, err := gitOutput(append([]string{"diff"}, buildDiffArgs(opts)...)...)
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return diff, nil
}

// Staged returns the diff of index vs HEAD.
func Staged(opts DiffOptions) (string, error) {
	diff, err := gitOutput(append([]string{"diff", "--cached"}, buildDiffArgs(opts)...)...)
	if err != nil {
		return "", fmt.Errorf("git diff --cached: %w", err)
	}
	return diff, nil
}

// Commit returns the diff for a specific commit vs its parent.
func Commit(sha string, opts DiffOptions) (string, error) {
	args := buildDiffArgs(opts)
	diff, err := gitOutput(append([]string{"diff", sha + "~1", sha}, args...)...)
	if err != nil {
		// Might be the initial commit; show it instead.
		diff, err = gitOutput("show", "--format=", sha)
		if err != nil {
			return "", fmt.Errorf("git show %s: %w", sha, err)
		}
	}
	return diff, nil
}

// CommitMessage returns the full commit message for sha.
func CommitMessage(sha string) (string, error) {
	msg, err := gitOutput("log", "-1", "--format=%B", sha)
	if err != nil {
		return "", fmt.Errorf("git log %s: %w", sha, err)
	}
	return strings.TrimSpace(msg), nil
}

func buildDiffArgs(opts DiffOptions) []string {
	var args []string
	if opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", opts.ContextLines))
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}
	return args
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
