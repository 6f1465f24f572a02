package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlink-dev/ledgerlink/internal/id"
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// HDFCParser parses HDFC bank statement CSV exports. The statement
// carries account headers and footers around the transaction table, so
// the parser locates the header row before reading data rows.
type HDFCParser struct{}

const (
	hdfcNumFields     = 7
	hdfcColDate       = 0
	hdfcColNarration  = 1
	hdfcColRef        = 2
	hdfcColWithdrawal = 4
	hdfcColDeposit    = 5
)

// hdfcDateFormats covers the date layouts seen across HDFC exports.
var hdfcDateFormats = []string{"02/01/06", "02/01/2006", "02-01-2006"}

// Format returns the parser name.
func (p *HDFCParser) Format() string { return "hdfc" }

// Parse reads an HDFC statement CSV and returns raw records. Rows
// without a reference number get a synthetic id derived from the date
// and the row's position within that date.
func (p *HDFCParser) Parse(r io.Reader) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading HDFC CSV: %w", err)
	}

	start := headerRow(rows)
	if start < 0 {
		return nil, fmt.Errorf("no transaction header row found")
	}

	var records []model.RawRecord
	seqByDate := make(map[string]int)
	for i, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		// Footer rows follow the table; the first row without a
		// parseable date ends it.
		date, err := parseHDFCDate(strings.TrimSpace(row[hdfcColDate]))
		if err != nil {
			break
		}
		if len(row) < hdfcNumFields {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", start+i+2, hdfcNumFields, len(row))
		}

		rec, err := parseHDFCRow(row, date, seqByDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", start+i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// headerRow finds the row holding the statement's column headers.
func headerRow(rows [][]string) int {
	for i, row := range rows {
		joined := strings.Join(row, ",")
		if strings.Contains(joined, "Date") && strings.Contains(joined, "Narration") {
			return i
		}
	}
	return -1
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseHDFCRow(row []string, date time.Time, seqByDate map[string]int) (model.RawRecord, error) {
	withdrawal, err := parseHDFCAmount(row[hdfcColWithdrawal])
	if err != nil {
		return model.RawRecord{}, fmt.Errorf("parsing withdrawal %q: %w", row[hdfcColWithdrawal], err)
	}
	deposit, err := parseHDFCAmount(row[hdfcColDeposit])
	if err != nil {
		return model.RawRecord{}, fmt.Errorf("parsing deposit %q: %w", row[hdfcColDeposit], err)
	}

	txnID := id.SanitizeRef(row[hdfcColRef])
	// Statements sometimes leave the reference column empty or zeroed.
	if txnID == "" || txnID == "0" {
		key := date.Format("20060102")
		seqByDate[key]++
		txnID = id.FormatTransactionID(date, seqByDate[key])
	}

	return model.RawRecord{
		ID:         txnID,
		Date:       date,
		Narration:  strings.TrimSpace(row[hdfcColNarration]),
		Withdrawal: withdrawal,
		Deposit:    deposit,
	}, nil
}

func parseHDFCDate(s string) (time.Time, error) {
	for _, layout := range hdfcDateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}

func parseHDFCAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
