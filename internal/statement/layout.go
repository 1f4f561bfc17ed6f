package statement

import (
	"fmt"
	"sort"
	"strings"
)

// Absent marks a column a layout does not have.
const Absent = -1

// Layout says where each field sits in a bank export row.
type Layout struct {
	Name           string
	Date           int
	Description    int
	Debit          int
	Credit         int
	Amount         int // signed single amount column; used instead of Debit/Credit when set
	Balance        int
	Classification int
	MinFields      int
}

// Standard is the debit/credit layout of the chapter's bank export:
// date in column 1, description 3, debit 4, credit 5, posted balance 7 and
// an optional classification label in 8.
var Standard = Layout{
	Name:           "standard",
	Date:           1,
	Description:    3,
	Debit:          4,
	Credit:         5,
	Amount:         Absent,
	Balance:        7,
	Classification: 8,
	MinFields:      6,
}

// Chase reads Chase checking exports:
// Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
var Chase = Layout{
	Name:           "chase",
	Date:           1,
	Description:    2,
	Debit:          Absent,
	Credit:         Absent,
	Amount:         3,
	Balance:        5,
	Classification: Absent,
	MinFields:      6,
}

// Validate checks that the layout can locate a date, a description and an amount.
func (l Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("layout name is required")
	}
	if l.Date < 0 {
		return fmt.Errorf("layout %s: date column is required", l.Name)
	}
	if l.Description < 0 {
		return fmt.Errorf("layout %s: description column is required", l.Name)
	}
	if l.Amount < 0 && l.Debit < 0 && l.Credit < 0 {
		return fmt.Errorf("layout %s: needs an amount column or debit/credit columns", l.Name)
	}
	if l.MinFields < 1 {
		return fmt.Errorf("layout %s: min_fields must be positive", l.Name)
	}
	return nil
}

// field returns the value at col, or "" when the column is absent or the
// row is too short.
func field(fields []string, col int) string {
	if col < 0 || col >= len(fields) {
		return ""
	}
	return fields[col]
}

// Registry holds named layouts.
type Registry struct {
	layouts map[string]Layout
}

// NewRegistry creates an empty layout registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Layout)}
}

// Register adds a layout. Registering a name twice is an error.
func (r *Registry) Register(l Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	key := strings.ToLower(l.Name)
	if _, ok := r.layouts[key]; ok {
		return fmt.Errorf("duplicate layout: %s", key)
	}
	r.layouts[key] = l
	return nil
}

// Get returns the layout registered under name.
func (r *Registry) Get(name string) (Layout, bool) {
	l, ok := r.layouts[strings.ToLower(name)]
	return l, ok
}

// Names returns the registered layout names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for k := range r.layouts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the built-in layouts.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(Standard)
	_ = r.Register(Chase)
	return r
}
