package commands_test

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterbooks/chapterbooks/internal/ledger"
)

func TestActivity_ListsEntries(t *testing.T) {
	dir := initChapter(t)
	mustRun(t, dir, treasurer, "balance", "set", "250")

	out := mustRun(t, dir, treasurer, "activity")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.Contains(t, lines[0], "ACTION")
	assert.Contains(t, lines[1], "init")
	assert.Contains(t, lines[2], "set_balance")
	assert.Contains(t, lines[2], "Balance 1000.00 -> 250.00")

	out = mustRun(t, dir, treasurer, "activity", "-n", "1")
	assert.NotContains(t, out, "Opened books")
	assert.Contains(t, out, "set_balance")
}

func TestActivity_TransactionTrail(t *testing.T) {
	dir := initChapter(t)
	mustRun(t, dir, treasurer, "member", "add", "Dana")
	txID := submittedID(t, mustRun(t, dir, "Dana", "request", "--amount", "25.00", "--merchant", "Costco", "--category", "Supplies & Materials"))
	mustRun(t, dir, "Dana", "request", "--amount", "9.00", "--merchant", "Staples", "--category", "Supplies & Materials")
	mustRun(t, dir, treasurer, "approve", txID)

	out := mustRun(t, dir, "Dana", "activity", "--transaction", txID)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.Contains(t, lines[1], "submit_request")
	assert.Contains(t, lines[2], "approve")
	assert.NotContains(t, out, "Staples")

	_, err := as(t, dir, "Dana", "activity", "--transaction", "tx-missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestActivity_CommitsNeedGitHistory(t *testing.T) {
	dir := initChapter(t)
	_, err := as(t, dir, treasurer, "activity", "--commits")
	assert.ErrorContains(t, err, "no git history")
}

func TestActivity_Commits(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping")
	}
	dir := t.TempDir()
	_, err := runChapterbooks(t, "init", dir, "--name", "Douglas Chapter", "--treasurer", treasurer, "--git")
	require.NoError(t, err)
	mustRun(t, dir, treasurer, "balance", "set", "250")

	out := mustRun(t, dir, treasurer, "activity", "--commits")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, out)
	assert.Equal(t, "set_balance: Balance 0.00 -> 250.00", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "init: Opened books"))
}
