package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,type,status,amount,merchant,category,payment_source,description,submitted_by,committee_id,committee_name"

const (
	numFields      = 12
	colID          = 0
	colDate        = 1
	colType        = 2
	colStatus      = 3
	colAmount      = 4
	colMerchant    = 5
	colCategory    = 6
	colSource      = 7
	colDesc        = 8
	colSubmittedBy = 9
	colCommitteeID = 10
	colCommittee   = 11
)

// ReadTransactions reads every record from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

// WriteTransactions writes records to a transactions.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colDate] = tx.Date.Format(model.DateFormat)
	row[colType] = string(tx.Type)
	row[colStatus] = string(tx.Status)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colMerchant] = tx.Merchant
	row[colCategory] = string(tx.Category)
	row[colSource] = string(tx.PaymentSource)
	row[colDesc] = tx.Description
	row[colSubmittedBy] = tx.SubmittedBy
	row[colCommitteeID] = tx.CommitteeID
	row[colCommittee] = tx.CommitteeName
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(model.DateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	typ, err := model.ParseTransactionType(record[colType])
	if err != nil {
		return model.Transaction{}, err
	}

	status, err := model.ParseStatus(record[colStatus])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("amount %q must not be negative", record[colAmount])
	}

	return model.Transaction{
		ID:            record[colID],
		Date:          date,
		Amount:        amount,
		Merchant:      record[colMerchant],
		Category:      model.Category(record[colCategory]),
		Description:   record[colDesc],
		Type:          typ,
		Status:        status,
		SubmittedBy:   record[colSubmittedBy],
		PaymentSource: model.PaymentSource(record[colSource]),
		CommitteeID:   record[colCommitteeID],
		CommitteeName: record[colCommittee],
	}, nil
}
