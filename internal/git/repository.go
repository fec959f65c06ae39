package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// stagedDiffArgs are the arguments of the diff read by --git-diff.
var stagedDiffArgs = []string{"diff", "--staged", "--unified=0", "--no-color"}

// Repo implements Repository using git commands.
type Repo struct {
	path string
}

// NewRepo creates a Repo rooted at path. It does not check that path is
// inside a work tree; the first git command does.
func NewRepo(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return &Repo{path: absPath}, nil
}

// runGit executes a git command and returns the output.
func (r *Repo) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, errMsg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return stdout.String(), nil
}

// StagedDiff returns `git diff --staged --unified=0 --no-color`.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	return r.runGit(ctx, stagedDiffArgs...)
}

// StagedChanges reads the staged diff and parses it.
func (r *Repo) StagedChanges(ctx context.Context) (ChangedLines, error) {
	out, err := r.StagedDiff(ctx)
	if err != nil {
		return nil, err
	}
	return ParseChangedLines(out), nil
}

func (r *Repo) Root(ctx context.Context) (string, error) {
	output, err := r.runGit(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

var _ Repository = (*Repo)(nil)
