package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterbooks/chapterbooks/internal/statement"
)

func intp(v int) *int { return &v }

func TestRoundTrip(t *testing.T) {
	cfg := Default("Douglas Chapter")
	cfg.Balance = "1174.95"
	cfg.Members = []Member{
		{Name: "Pat Lee", Role: "treasurer"},
		{Name: "Sam Ortiz", Role: "member"},
	}
	cfg.Import.Profiles = []ProfileConfig{
		{Name: "credit-union", Date: 0, Description: 1, Amount: intp(2), MinFields: 3},
	}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Chapter.Name, got.Chapter.Name)
	assert.Equal(t, "1174.95", got.Balance)
	assert.Equal(t, cfg.Import.Profile, got.Import.Profile)
	assert.Equal(t, cfg.Members, got.Members)
	require.Len(t, got.Import.Profiles, 1)
	assert.Equal(t, 2, *got.Import.Profiles[0].Amount)
	assert.Nil(t, got.Import.Profiles[0].Debit)
	assert.Equal(t, cfg.Logging, got.Logging)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Chapter")

	assert.Equal(t, "My Chapter", cfg.Chapter.Name)
	assert.Equal(t, "0.00", cfg.Balance)
	assert.Equal(t, "standard", cfg.Import.Profile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.History.Git)
	assert.Equal(t, "books@chapterbooks.local", cfg.History.Email)
	assert.Empty(t, cfg.Members)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Chapter")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Chapter")
	assert.Contains(t, contents, "profile: standard")
	assert.Contains(t, contents, "format: console")
	assert.Contains(t, contents, "git: false")
}

func TestBalance(t *testing.T) {
	cfg := Default("x")
	cfg.SetBalance(decimal.RequireFromString("1000"))
	assert.Equal(t, "1000.00", cfg.Balance)

	got, err := cfg.CurrentBalance()
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1000)))

	cfg.Balance = ""
	got, err = cfg.CurrentBalance()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	cfg.Balance = "lots"
	_, err = cfg.CurrentBalance()
	assert.Error(t, err)
}

func TestLayouts(t *testing.T) {
	cfg := Default("x")
	cfg.Import.Profiles = []ProfileConfig{
		{Name: "credit-union", Date: 0, Description: 2, Debit: intp(3), Credit: intp(4), MinFields: 5},
	}
	reg, err := cfg.Layouts()
	require.NoError(t, err)

	l, ok := reg.Get("credit-union")
	require.True(t, ok)
	assert.Equal(t, 3, l.Debit)
	assert.Equal(t, 4, l.Credit)
	assert.Equal(t, statement.Absent, l.Amount)
	assert.Equal(t, statement.Absent, l.Balance)

	_, ok = reg.Get("standard")
	assert.True(t, ok, "built-in layouts stay registered")
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := &Config{
		Balance: "abc",
		Import:  ImportConfig{Profile: "nope"},
		Logging: LoggingConfig{Format: "xml"},
		Members: []Member{{Name: "Pat"}, {Name: "pat"}, {Name: ""}},
	}
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "chapter.name is required")
	assert.Contains(t, msg, "parsing balance")
	assert.Contains(t, msg, `import.profile "nope"`)
	assert.Contains(t, msg, "logging.format")
	assert.Contains(t, msg, `"pat" listed twice`)
	assert.Contains(t, msg, "name is required")
}

func TestValidate_BadProfile(t *testing.T) {
	cfg := Default("x")
	cfg.Import.Profiles = []ProfileConfig{{Name: "broken", Date: 0, Description: 1, MinFields: 2}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs an amount column")
}
