package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/chapterbooks/chapterbooks/internal/statement"
)

// FileName is the configuration file at the root of a chapter directory.
const FileName = "chapterbooks.yaml"

// Config represents the top-level chapterbooks.yaml configuration.
type Config struct {
	Chapter ChapterConfig `yaml:"chapter"`
	Balance string        `yaml:"balance"` // decimal string, e.g. "1174.95"
	Import  ImportConfig  `yaml:"import"`
	Members []Member      `yaml:"members,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
}

// ChapterConfig identifies the chapter.
type ChapterConfig struct {
	Name string `yaml:"name"`
}

// ImportConfig controls bank statement imports.
type ImportConfig struct {
	Profile  string          `yaml:"profile"`
	Profiles []ProfileConfig `yaml:"profiles,omitempty"`
}

// ProfileConfig declares an extra bank export layout. Column numbers are
// zero-based; -1 (or omission, for optional columns) marks a missing column.
type ProfileConfig struct {
	Name           string `yaml:"name"`
	Date           int    `yaml:"date"`
	Description    int    `yaml:"description"`
	Debit          *int   `yaml:"debit,omitempty"`
	Credit         *int   `yaml:"credit,omitempty"`
	Amount         *int   `yaml:"amount,omitempty"`
	Balance        *int   `yaml:"balance,omitempty"`
	Classification *int   `yaml:"classification,omitempty"`
	MinFields      int    `yaml:"min_fields"`
}

// Member is one entry of the chapter roster.
type Member struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// HistoryConfig controls git versioning of the chapter directory.
type HistoryConfig struct {
	Git   bool   `yaml:"git"`
	Email string `yaml:"email"` // author email on every commit
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a chapterbooks.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new chapter.
func Default(chapterName string) *Config {
	return &Config{
		Chapter: ChapterConfig{Name: chapterName},
		Balance: "0.00",
		Import: ImportConfig{
			Profile: statement.Standard.Name,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		History: HistoryConfig{
			Email: "books@chapterbooks.local",
		},
	}
}

// CurrentBalance parses the stored account balance.
func (c *Config) CurrentBalance() (decimal.Decimal, error) {
	if strings.TrimSpace(c.Balance) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing balance %q: %w", c.Balance, err)
	}
	return d, nil
}

// SetBalance stores a new account balance.
func (c *Config) SetBalance(d decimal.Decimal) {
	c.Balance = d.StringFixed(2)
}

// Layouts returns the built-in layouts plus any declared in the file.
func (c *Config) Layouts() (*statement.Registry, error) {
	reg := statement.DefaultRegistry()
	for _, p := range c.Import.Profiles {
		if err := reg.Register(p.Layout()); err != nil {
			return nil, fmt.Errorf("import profile %q: %w", p.Name, err)
		}
	}
	return reg, nil
}

// Layout converts the profile into a statement layout.
func (p ProfileConfig) Layout() statement.Layout {
	col := func(v *int) int {
		if v == nil {
			return statement.Absent
		}
		return *v
	}
	return statement.Layout{
		Name:           p.Name,
		Date:           p.Date,
		Description:    p.Description,
		Debit:          col(p.Debit),
		Credit:         col(p.Credit),
		Amount:         col(p.Amount),
		Balance:        col(p.Balance),
		Classification: col(p.Classification),
		MinFields:      p.MinFields,
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.Chapter.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("chapter.name is required"))
	}
	if _, err := c.CurrentBalance(); err != nil {
		result = multierror.Append(result, err)
	}

	reg, err := c.Layouts()
	if err != nil {
		result = multierror.Append(result, err)
	} else if _, ok := reg.Get(c.Import.Profile); !ok {
		result = multierror.Append(result, fmt.Errorf("import.profile %q is not a known layout (have %s)",
			c.Import.Profile, strings.Join(reg.Names(), ", ")))
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("logging.format %q must be console or json", c.Logging.Format))
	}

	seen := make(map[string]bool, len(c.Members))
	for _, m := range c.Members {
		key := strings.ToLower(strings.TrimSpace(m.Name))
		if key == "" {
			result = multierror.Append(result, fmt.Errorf("members: name is required"))
			continue
		}
		if seen[key] {
			result = multierror.Append(result, fmt.Errorf("members: %q listed twice", m.Name))
		}
		seen[key] = true
	}

	return result.ErrorOrNil()
}
