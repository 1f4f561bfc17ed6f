// Package committees stores the chapter's budget-tracking groups.
package committees

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/id"
	"github.com/chapterbooks/chapterbooks/internal/model"
)

// RelPath is the committee file relative to the chapter root.
const RelPath = "ledger/committees.csv"

var (
	ErrNotFound     = errors.New("committee not found")
	ErrNameRequired = errors.New("committee name is required")
	ErrNegative     = errors.New("annual budget must not be negative")
)

// Service provides in-memory lookup over the chapter's committees.
type Service struct {
	committees []model.Committee
	byID       map[string]int
	newID      id.Generator
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerator sets how committee IDs are minted.
func WithIDGenerator(gen id.Generator) Option {
	return func(s *Service) { s.newID = gen }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service from a slice of committees.
func NewService(committees []model.Committee, opts ...Option) *Service {
	s := &Service{newID: id.New, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.committees = committees
	s.reindex()
	return s
}

// Load reads ledger/committees.csv from a chapter root. A missing file
// means no committees yet.
func Load(root string, opts ...Option) (*Service, error) {
	path := filepath.Join(root, RelPath)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(nil, opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening committees: %w", err)
	}
	defer f.Close()

	list, err := ReadCommittees(f)
	if err != nil {
		return nil, fmt.Errorf("reading committees: %w", err)
	}
	return NewService(list, opts...), nil
}

func (s *Service) reindex() {
	s.byID = make(map[string]int, len(s.committees))
	for i, c := range s.committees {
		s.byID[c.ID] = i
	}
}

// All returns every committee.
func (s *Service) All() []model.Committee {
	return s.committees
}

// Active returns the committees still accepting expenses.
func (s *Service) Active() []model.Committee {
	var result []model.Committee
	for _, c := range s.committees {
		if c.IsActive {
			result = append(result, c)
		}
	}
	return result
}

// Get returns a committee by ID.
func (s *Service) Get(cid string) (model.Committee, bool) {
	i, ok := s.byID[cid]
	if !ok {
		return model.Committee{}, false
	}
	return s.committees[i], true
}

// Params are the editable committee fields.
type Params struct {
	Name         string
	AnnualBudget decimal.Decimal
	Description  string
	ChairName    string
}

func (p Params) check() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.AnnualBudget.IsNegative() {
		return ErrNegative
	}
	return nil
}

// Add creates an active committee.
func (s *Service) Add(p Params) (model.Committee, error) {
	if err := p.check(); err != nil {
		return model.Committee{}, err
	}
	now := s.now().UTC().Truncate(time.Second)
	c := model.Committee{
		ID:           s.newID(id.PrefixCommittee),
		Name:         strings.TrimSpace(p.Name),
		AnnualBudget: p.AnnualBudget,
		Description:  p.Description,
		ChairName:    strings.TrimSpace(p.ChairName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[c.ID] = len(s.committees)
	s.committees = append(s.committees, c)
	return c, nil
}

// Update replaces the editable fields of a committee.
func (s *Service) Update(cid string, p Params) (model.Committee, error) {
	i, ok := s.byID[cid]
	if !ok {
		return model.Committee{}, fmt.Errorf("%w: %s", ErrNotFound, cid)
	}
	if err := p.check(); err != nil {
		return model.Committee{}, err
	}
	c := &s.committees[i]
	c.Name = strings.TrimSpace(p.Name)
	c.AnnualBudget = p.AnnualBudget
	c.Description = p.Description
	c.ChairName = strings.TrimSpace(p.ChairName)
	c.UpdatedAt = s.now().UTC().Truncate(time.Second)
	return *c, nil
}

// SetActive opens or closes a committee.
func (s *Service) SetActive(cid string, active bool) (model.Committee, error) {
	i, ok := s.byID[cid]
	if !ok {
		return model.Committee{}, fmt.Errorf("%w: %s", ErrNotFound, cid)
	}
	s.committees[i].IsActive = active
	s.committees[i].UpdatedAt = s.now().UTC().Truncate(time.Second)
	return s.committees[i], nil
}

// Delete removes a committee. Transactions tagged with it keep their
// committee ID and name.
func (s *Service) Delete(cid string) (model.Committee, error) {
	i, ok := s.byID[cid]
	if !ok {
		return model.Committee{}, fmt.Errorf("%w: %s", ErrNotFound, cid)
	}
	removed := s.committees[i]
	s.committees = append(s.committees[:i:i], s.committees[i+1:]...)
	s.reindex()
	return removed, nil
}

// Save writes the committees to ledger/committees.csv.
func (s *Service) Save(root string) error {
	path := filepath.Join(root, RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating committees file: %w", err)
	}
	defer f.Close()

	if err := WriteCommittees(f, s.committees); err != nil {
		return fmt.Errorf("writing committees: %w", err)
	}
	return f.Close()
}
