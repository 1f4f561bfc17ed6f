package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/id"
	"github.com/chapterbooks/chapterbooks/internal/model"
)

// RelPath is the ledger file relative to the chapter root.
const RelPath = "ledger/transactions.csv"

var (
	ErrNotFound     = errors.New("transaction not found")
	ErrNotPending   = errors.New("transaction is not pending")
	ErrDuplicateID  = errors.New("duplicate transaction ID")
	ErrInvalidInput = errors.New("invalid request")
)

// CommitteeLookup resolves committee IDs for requests.
type CommitteeLookup interface {
	Get(id string) (model.Committee, bool)
}

// Service holds the chapter's transactions in memory and persists them to
// a single CSV file.
type Service struct {
	path     string
	txns     []model.Transaction
	byID     map[string]int
	newID    id.Generator
	now      func() time.Time
	validate *validator.Validate
}

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerator sets how request IDs are minted.
func WithIDGenerator(gen id.Generator) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService creates a Service over txns that saves to path.
func NewService(path string, txns []model.Transaction, opts ...Option) *Service {
	s := &Service{
		path:     path,
		byID:     make(map[string]int, len(txns)),
		newID:    id.New,
		now:      time.Now,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, tx := range txns {
		s.byID[tx.ID] = len(s.txns)
		s.txns = append(s.txns, tx)
	}
	return s
}

// Load reads <root>/ledger/transactions.csv. A missing file is an empty ledger.
func Load(root string, opts ...Option) (*Service, error) {
	path := filepath.Join(root, RelPath)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(path, nil, opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return NewService(path, txns, opts...), nil
}

// Save writes the whole ledger back to disk.
func (s *Service) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	// Write a sibling file and rename so a failed write leaves the old ledger intact.
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}
	if err := WriteTransactions(f, s.txns); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// All returns every transaction in insertion order.
func (s *Service) All() []model.Transaction {
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Get returns a transaction by ID.
func (s *Service) Get(txID string) (model.Transaction, bool) {
	i, ok := s.byID[txID]
	if !ok {
		return model.Transaction{}, false
	}
	return s.txns[i], true
}

// Append adds a batch. Either every record is added or none is.
func (s *Service) Append(batch []model.Transaction) error {
	seen := make(map[string]bool, len(batch))
	for _, tx := range batch {
		if _, exists := s.byID[tx.ID]; exists || seen[tx.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
		}
		if tx.Amount.IsNegative() {
			return fmt.Errorf("%w: %s has a negative amount", ErrInvalidInput, tx.ID)
		}
		seen[tx.ID] = true
	}
	for _, tx := range batch {
		s.byID[tx.ID] = len(s.txns)
		s.txns = append(s.txns, tx)
	}
	return nil
}

// SubmitParams holds a member's reimbursement request or the treasurer's
// manual entry.
type SubmitParams struct {
	Date          time.Time
	Amount        decimal.Decimal
	Merchant      string                `validate:"required"`
	Category      model.Category        `validate:"required"`
	Description   string
	Type          model.TransactionType `validate:"required,oneof=EXPENSE INCOME REIMBURSEMENT"`
	SubmittedBy   string                `validate:"required"`
	PaymentSource model.PaymentSource   `validate:"omitempty,payment_source"`
	CommitteeID   string
}

// Submit records a request as pending. Zero dates default to today.
func (s *Service) Submit(p SubmitParams, committees CommitteeLookup) (model.Transaction, error) {
	p.Merchant = strings.TrimSpace(p.Merchant)
	p.SubmittedBy = strings.TrimSpace(p.SubmittedBy)
	if err := s.check(p); err != nil {
		return model.Transaction{}, err
	}

	date := p.Date
	if date.IsZero() {
		y, m, d := s.now().Date()
		date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tx := model.Transaction{
		ID:            s.newID(id.PrefixRequest),
		Date:          date,
		Amount:        p.Amount,
		Merchant:      p.Merchant,
		Category:      p.Category,
		Description:   p.Description,
		Type:          p.Type,
		Status:        model.StatusPending,
		SubmittedBy:   p.SubmittedBy,
		PaymentSource: p.PaymentSource,
	}

	if p.CommitteeID != "" {
		var c model.Committee
		ok := committees != nil
		if ok {
			c, ok = committees.Get(p.CommitteeID)
		}
		if !ok {
			return model.Transaction{}, fmt.Errorf("%w: unknown committee %q", ErrInvalidInput, p.CommitteeID)
		}
		tx.CommitteeID = c.ID
		tx.CommitteeName = c.Name
	}

	if err := s.Append([]model.Transaction{tx}); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (s *Service) check(p SubmitParams) error {
	var problems []string
	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, strings.TrimSpace(fmt.Sprintf("%s %s %s", fe.Field(), fe.Tag(), fe.Param())))
		}
	}
	if !p.Amount.IsPositive() {
		problems = append(problems, "Amount must be positive")
	}
	if p.Category.Known() && p.Type != "" && !p.Category.AllowedFor(p.Type) {
		problems = append(problems, fmt.Sprintf("Category %q is not offered for %s", p.Category, p.Type))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("payment_source", func(fl validator.FieldLevel) bool {
		return model.PaymentSource(fl.Field().String()).Valid()
	})
	return v
}

// Approve marks a pending transaction approved.
func (s *Service) Approve(txID string) (model.Transaction, error) {
	return s.decide(txID, model.StatusApproved)
}

// Reject marks a pending transaction rejected.
func (s *Service) Reject(txID string) (model.Transaction, error) {
	return s.decide(txID, model.StatusRejected)
}

func (s *Service) decide(txID string, status model.Status) (model.Transaction, error) {
	i, ok := s.byID[txID]
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, txID)
	}
	if s.txns[i].Status != model.StatusPending {
		return model.Transaction{}, fmt.Errorf("%w: %s is %s", ErrNotPending, txID, s.txns[i].Status)
	}
	s.txns[i].Status = status
	return s.txns[i], nil
}

// Pending returns the transactions waiting for review.
func (s *Service) Pending() []model.Transaction {
	return s.Filter(func(tx model.Transaction) bool { return tx.Status == model.StatusPending })
}

// Filter returns the transactions keep accepts, in insertion order.
func (s *Service) Filter(keep func(model.Transaction) bool) []model.Transaction {
	var out []model.Transaction
	for _, tx := range s.txns {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Search matches query against merchant, description and category,
// ignoring case. An empty query matches everything.
func (s *Service) Search(query string) []model.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.All()
	}
	return s.Filter(func(tx model.Transaction) bool {
		return strings.Contains(strings.ToLower(tx.Merchant), q) ||
			strings.Contains(strings.ToLower(tx.Description), q) ||
			strings.Contains(strings.ToLower(string(tx.Category)), q)
	})
}

// NewestFirst sorts txns by date, latest first. Records on the same day
// keep their relative order.
func NewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })
}
