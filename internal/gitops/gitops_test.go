package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping")
	}
}

var treasurer = Signature{Name: "Jordan", Email: "treasurer@example.org"}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := Init(context.Background(), dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepoAndOpen(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")
	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrNotRepo)

	_, err = Init(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
	_, err = Open(dir)
	assert.NoError(t, err)
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := Init(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), []byte("id\n"), 0o644))

	hash, err := repo.CommitAll(ctx, "init: open the books", treasurer)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	author := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	author.Dir = dir
	out, err := author.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Jordan <treasurer@example.org>")

	subjects, err := repo.Log(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"init: open the books"}, subjects)
}

func TestCommitAll_CleanTree(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := Init(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err = repo.CommitAll(ctx, "first", treasurer)
	require.NoError(t, err)

	hash, err := repo.CommitAll(ctx, "nothing changed", treasurer)
	require.NoError(t, err)
	assert.Empty(t, hash)

	subjects, err := repo.Log(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, subjects)
}
