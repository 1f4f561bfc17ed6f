// Package gitops keeps a chapter directory under git so every change to the
// books is a commit.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepo means the directory has no .git.
var ErrNotRepo = errors.New("not a git repository")

// Signature names who made a change.
type Signature struct {
	Name  string
	Email string
}

// Repo is a working tree rooted at a chapter directory.
type Repo struct {
	dir string
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) (*Repo, error) {
	r := &Repo{dir: dir}
	if out, err := r.git(ctx, nil, "init", "--quiet"); err != nil {
		return nil, fmt.Errorf("git init: %s: %w", out, err)
	}
	return r, nil
}

// Open returns the repository at dir.
func Open(dir string) (*Repo, error) {
	if !IsRepo(dir) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepo)
	}
	return &Repo{dir: dir}, nil
}

// IsRepo reports whether dir is the top of a git working tree.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages every change and commits it as who. It returns the short
// commit hash, or "" when the tree was already clean.
func (r *Repo) CommitAll(ctx context.Context, message string, who Signature) (string, error) {
	if out, err := r.git(ctx, nil, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	status, err := r.git(ctx, nil, "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("git status: %s: %w", status, err)
	}
	if strings.TrimSpace(status) == "" {
		return "", nil
	}

	// Identity is set through the environment, not git config.
	env := []string{
		"GIT_AUTHOR_NAME=" + who.Name,
		"GIT_AUTHOR_EMAIL=" + who.Email,
		"GIT_COMMITTER_NAME=" + who.Name,
		"GIT_COMMITTER_EMAIL=" + who.Email,
	}
	if out, err := r.git(ctx, env, "commit", "--quiet", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	hash, err := r.git(ctx, nil, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(hash), nil
}

// Log returns the subjects of the most recent n commits, newest first.
func (r *Repo) Log(ctx context.Context, n int) ([]string, error) {
	out, err := r.git(ctx, nil, "log", fmt.Sprintf("-%d", n), "--format=%s")
	if err != nil {
		return nil, fmt.Errorf("git log: %s: %w", out, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func (r *Repo) git(ctx context.Context, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}
