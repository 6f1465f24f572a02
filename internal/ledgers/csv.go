package ledgers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

const (
	numFields    = 5
	colID        = 0
	colName      = 1
	colGroup     = 2
	colGSTIN     = 3
	colStateCode = 4
)

// ReadLedgers reads ledgers.csv.
func ReadLedgers(r io.Reader) ([]model.Ledger, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledgers CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var out []model.Ledger
	for i, rec := range records[1:] {
		l, err := UnmarshalLedger(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// WriteLedgers writes ledgers.csv.
func WriteLedgers(w io.Writer, ledgers []model.Ledger) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "name", "parent_group", "gstin", "state_code"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, l := range ledgers {
		if err := cw.Write(MarshalLedger(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLedger converts a Ledger to a CSV row.
func MarshalLedger(l model.Ledger) []string {
	row := make([]string, numFields)
	row[colID] = l.ID
	row[colName] = l.Name
	row[colGroup] = l.ParentGroup
	row[colGSTIN] = l.GSTIN
	row[colStateCode] = l.StateCode
	return row
}

// UnmarshalLedger converts a CSV row to a Ledger.
func UnmarshalLedger(record []string) (model.Ledger, error) {
	if len(record) != numFields {
		return model.Ledger{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colName] == "" {
		return model.Ledger{}, fmt.Errorf("missing ledger name")
	}
	return model.Ledger{
		ID:          record[colID],
		Name:        record[colName],
		ParentGroup: record[colGroup],
		GSTIN:       record[colGSTIN],
		StateCode:   record[colStateCode],
	}, nil
}
