package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/ledger"
	"github.com/chapterbooks/chapterbooks/internal/model"
	"github.com/chapterbooks/chapterbooks/internal/statement"
)

func TestImport_Standard(t *testing.T) {
	dir := initChapter(t)
	path := copyTestdata(t, "bank_statement.csv", filepath.Join(t.TempDir(), "bank_statement.csv"))

	out := mustRun(t, dir, treasurer, "import", path)
	assert.Contains(t, out, "Imported 7 transactions from bank_statement.csv")
	assert.Contains(t, out, "Balance: 1174.95")
	assert.Equal(t, "1174.95", balance(t, dir))

	svc, err := ledger.Load(dir)
	require.NoError(t, err)
	txns := svc.All()
	require.Len(t, txns, 7)
	for _, tx := range txns {
		assert.Equal(t, model.StatusApproved, tx.Status)
		assert.True(t, tx.IsBankImport())
	}

	entries, err := audit.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionImport, entries[1].Action)
}

func TestImport_ChaseProfile(t *testing.T) {
	dir := initChapter(t)
	path := copyTestdata(t, "chase_checking.csv", filepath.Join(t.TempDir(), "chase_checking.csv"))

	out := mustRun(t, dir, treasurer, "import", path, "--profile", "chase")
	assert.Contains(t, out, "Imported 6 transactions")
	assert.Equal(t, "8326.91", balance(t, dir))
}

func TestImport_UnknownProfile(t *testing.T) {
	dir := initChapter(t)
	path := copyTestdata(t, "bank_statement.csv", filepath.Join(t.TempDir(), "bank_statement.csv"))

	_, err := as(t, dir, treasurer, "import", path, "--profile", "wells")
	assert.ErrorContains(t, err, "unknown profile")
}

func TestImport_NoTransactions(t *testing.T) {
	dir := initChapter(t)
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Account,Date,Check Number,Description,Debit,Credit\n"), 0o644))

	_, err := as(t, dir, treasurer, "import", path)
	assert.ErrorIs(t, err, statement.ErrNoTransactions)
	assert.Equal(t, "1000.00", balance(t, dir))
}

func TestImport_TreasurerOnly(t *testing.T) {
	dir := initChapter(t)
	mustRun(t, dir, treasurer, "member", "add", "Dana")
	path := copyTestdata(t, "bank_statement.csv", filepath.Join(t.TempDir(), "bank_statement.csv"))

	_, err := as(t, dir, "Dana", "import", path)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = as(t, dir, "Stranger", "import", path)
	assert.ErrorIs(t, err, auth.ErrUnknownMember)

	_, err = runChapterbooks(t, "--dir", dir, "import", path)
	assert.ErrorContains(t, err, "--as is required")
}

func TestInbox(t *testing.T) {
	dir := initChapter(t)
	copyTestdata(t, "bank_statement.csv", filepath.Join(dir, "statements", "bank_statement.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statements", "notes.csv"), []byte("header\nnothing useful\n"), 0o644))

	out := mustRun(t, dir, treasurer, "inbox")
	assert.Contains(t, out, "Imported 7 transactions from bank_statement.csv")
	assert.Contains(t, out, "Skipped notes.csv")
	assert.Contains(t, out, "Balance: 1174.95")

	_, err := os.Stat(filepath.Join(dir, "statements", "processed", "bank_statement.csv"))
	require.NoError(t, err, "imported statement should move to processed")
	_, err = os.Stat(filepath.Join(dir, "statements", "notes.csv"))
	require.NoError(t, err, "failed statement should stay in the inbox")

	_, err = os.Stat(filepath.Join(dir, "statements", "bank_statement.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestInbox_Empty(t *testing.T) {
	dir := initChapter(t)
	out := mustRun(t, dir, treasurer, "inbox")
	assert.True(t, strings.HasPrefix(out, "No statements waiting"))
}

func TestInbox_NothingImportable(t *testing.T) {
	dir := initChapter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statements", "notes.csv"), []byte("header\n"), 0o644))

	_, err := as(t, dir, treasurer, "inbox")
	assert.Error(t, err)
}

func TestImport_MissingFileShowsGenericMessage(t *testing.T) {
	dir := initChapter(t)

	_, err := as(t, dir, treasurer, "import", filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, statement.ErrParseFailed)
	assert.Equal(t, statement.ErrParseFailed.Error(), err.Error())
	assert.Equal(t, "1000.00", balance(t, dir))
}

func TestInbox_BalanceFromLatestStatement(t *testing.T) {
	dir := initChapter(t)
	const header = "Account,Date,Check Number,Description,Debit,Credit,Status,Balance,Classification\n"
	december := header + `x,12/09/2025,,"DECEMBER DUES",,20.00,Posted,900.00,` + "\n"
	november := header + `x,11/15/2025,,"NOVEMBER DUES",,10.00,Posted,500.00,` + "\n"
	// The older statement sorts last by name.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statements", "a_december.csv"), []byte(december), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statements", "b_november.csv"), []byte(november), 0o644))

	out := mustRun(t, dir, treasurer, "inbox")
	assert.Contains(t, out, "Imported 1 transactions from a_december.csv")
	assert.Contains(t, out, "Imported 1 transactions from b_november.csv")
	assert.Contains(t, out, "Balance: 900.00")
	assert.Equal(t, "900.00", balance(t, dir))
}
