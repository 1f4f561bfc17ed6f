package committees

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

const (
	numFields    = 8
	colID        = 0
	colName      = 1
	colBudget    = 2
	colDesc      = 3
	colChair     = 4
	colActive    = 5
	colCreatedAt = 6
	colUpdatedAt = 7
)

var header = []string{"committee_id", "name", "annual_budget", "description", "chair_name", "is_active", "created_at", "updated_at"}

// ReadCommittees reads committees.csv.
func ReadCommittees(r io.Reader) ([]model.Committee, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading committees CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var out []model.Committee
	for i, rec := range records[1:] {
		c, err := UnmarshalCommittee(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteCommittees writes committees.csv.
func WriteCommittees(w io.Writer, committees []model.Committee) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range committees {
		if err := cw.Write(MarshalCommittee(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCommittee converts a Committee to a CSV row.
func MarshalCommittee(c model.Committee) []string {
	row := make([]string, numFields)
	row[colID] = c.ID
	row[colName] = c.Name
	row[colBudget] = c.AnnualBudget.StringFixed(2)
	row[colDesc] = c.Description
	row[colChair] = c.ChairName
	row[colActive] = strconv.FormatBool(c.IsActive)
	row[colCreatedAt] = c.CreatedAt.Format(time.RFC3339)
	row[colUpdatedAt] = c.UpdatedAt.Format(time.RFC3339)
	return row
}

// UnmarshalCommittee converts a CSV row to a Committee.
func UnmarshalCommittee(record []string) (model.Committee, error) {
	if len(record) != numFields {
		return model.Committee{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	budget, err := decimal.NewFromString(record[colBudget])
	if err != nil {
		return model.Committee{}, fmt.Errorf("parsing annual_budget %q: %w", record[colBudget], err)
	}

	active, err := strconv.ParseBool(record[colActive])
	if err != nil {
		return model.Committee{}, fmt.Errorf("parsing is_active %q: %w", record[colActive], err)
	}

	created, err := time.Parse(time.RFC3339, record[colCreatedAt])
	if err != nil {
		return model.Committee{}, fmt.Errorf("parsing created_at %q: %w", record[colCreatedAt], err)
	}
	updated, err := time.Parse(time.RFC3339, record[colUpdatedAt])
	if err != nil {
		return model.Committee{}, fmt.Errorf("parsing updated_at %q: %w", record[colUpdatedAt], err)
	}

	return model.Committee{
		ID:           record[colID],
		Name:         record[colName],
		AnnualBudget: budget,
		Description:  record[colDesc],
		ChairName:    record[colChair],
		IsActive:     active,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}
