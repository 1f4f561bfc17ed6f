package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chapterbooks/chapterbooks/internal/commands"
)

const treasurer = "Jordan"

func runChapterbooks(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// initChapter creates a chapter with Jordan as treasurer and 1000.00 in the bank.
func initChapter(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runChapterbooks(t, "init", dir, "--name", "Douglas Chapter", "--treasurer", treasurer, "--balance", "1000.00")
	require.NoError(t, err)
	return dir
}

// as runs a command in dir on behalf of name.
func as(t *testing.T, dir, name string, args ...string) (string, error) {
	t.Helper()
	return runChapterbooks(t, append([]string{"--dir", dir, "--as", name}, args...)...)
}

func mustRun(t *testing.T, dir, name string, args ...string) string {
	t.Helper()
	out, err := as(t, dir, name, args...)
	require.NoError(t, err, "%v: %s", args, out)
	return out
}

func copyTestdata(t *testing.T, name, dst string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
	return dst
}

// submittedID pulls the ID out of "Submitted <id> (PENDING) for <amount>".
func submittedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, out)
	require.Equal(t, "Submitted", fields[0], out)
	return fields[1]
}

// committeeID pulls the ID out of "... committee <name> (<id>)".
func committeeID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.NotEmpty(t, fields, out)
	return strings.TrimSuffix(strings.TrimPrefix(fields[len(fields)-1], "("), ")")
}

func balance(t *testing.T, dir string) string {
	t.Helper()
	return strings.TrimSpace(mustRun(t, dir, treasurer, "balance", "show"))
}
