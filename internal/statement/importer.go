package statement

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/id"
	"github.com/chapterbooks/chapterbooks/internal/model"
)

var (
	// ErrNoTransactions means no row of the file produced a transaction.
	ErrNoTransactions = errors.New("No valid transactions found. Please ensure the CSV format matches your bank statement.") //nolint:staticcheck // shown to users as is
	// ErrParseFailed means the file could not be read at all.
	ErrParseFailed = errors.New("Failed to parse CSV file. Please check the format.") //nolint:staticcheck
)

// Batch is the result of importing one statement file.
type Batch struct {
	Transactions []model.Transaction
	// Balance is the posted balance of the latest-dated row, when any row carried one.
	Balance decimal.NullDecimal
	// BalanceAsOf is the date of the row Balance came from. It is zero when
	// that row's date did not parse.
	BalanceAsOf time.Time
}

// Importer turns bank statement text into approved transactions.
type Importer struct {
	layout Layout
	now    func() time.Time
	newID  id.Generator
	log    zerolog.Logger
}

// Option customizes an Importer.
type Option func(*Importer)

// WithClock sets the clock used for rows whose date does not parse.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// WithIDGenerator sets how transaction IDs are minted.
func WithIDGenerator(gen id.Generator) Option {
	return func(im *Importer) { im.newID = gen }
}

// WithLogger sets where read failures are reported.
func WithLogger(log zerolog.Logger) Option {
	return func(im *Importer) { im.log = log }
}

// NewImporter creates an Importer for the given layout.
func NewImporter(layout Layout, opts ...Option) *Importer {
	im := &Importer{
		layout: layout,
		now:    time.Now,
		newID:  id.New,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportReader reads the whole statement before importing it. A read
// failure is logged and yields ErrParseFailed alone.
func (im *Importer) ImportReader(r io.Reader) (*Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		im.log.Error().Err(err).Str("layout", im.layout.Name).Msg("reading statement")
		return nil, ErrParseFailed
	}
	return im.Import(string(data))
}

// Import parses statement text. The first line is a header and is always
// skipped. Short rows and rows that move no money are dropped silently.
func (im *Importer) Import(text string) (*Batch, error) {
	lines := strings.Split(text, "\n")
	now := im.now()

	batch := &Batch{}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		row, ok := im.layout.MapRow(SplitLine(line), now)
		if !ok {
			continue
		}

		// Undated rows have a zero timestamp, so any dated row outranks them.
		// Later rows win ties.
		if row.Balance.Valid && !row.Timestamp.Before(batch.BalanceAsOf) {
			batch.Balance = row.Balance
			batch.BalanceAsOf = row.Timestamp
		}

		if !row.Amount.IsPositive() {
			continue
		}

		batch.Transactions = append(batch.Transactions, model.Transaction{
			ID:            im.newID(id.PrefixImport),
			Date:          row.Date,
			Amount:        row.Amount,
			Merchant:      MerchantName(row.Description),
			Category:      Classify(row.Description, row.Classification, row.Type),
			Description:   row.Description,
			Type:          row.Type,
			Status:        model.StatusApproved,
			SubmittedBy:   model.BankImportSubmitter,
			PaymentSource: DetectSource(row.Description),
		})
	}

	if len(batch.Transactions) == 0 {
		return nil, ErrNoTransactions
	}
	return batch, nil
}
