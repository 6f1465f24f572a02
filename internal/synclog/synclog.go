// Package synclog keeps an append-only CSV record of synchronization
// attempts and their per-transaction outcomes.
package synclog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the sync log.
type Entry struct {
	Timestamp     time.Time
	Batch         string
	Action        string // "sync", "import", "ledger-create"
	TransactionID string // empty for batch-level rows
	Outcome       string
	Details       string
}

// Header is the CSV header for sync-log.csv.
const Header = "timestamp,batch,action,transaction_id,outcome,details"

const (
	numFields     = 6
	logDir        = "logs"
	logFile       = "logs/sync-log.csv"
	colTimestamp  = 0
	colBatch      = 1
	colAction     = 2
	colTxnID      = 3
	colOutcome    = 4
	colDetails    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colBatch] = e.Batch
	row[colAction] = e.Action
	row[colTxnID] = e.TransactionID
	row[colOutcome] = e.Outcome
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:     ts,
		Batch:         record[colBatch],
		Action:        record[colAction],
		TransactionID: record[colTxnID],
		Outcome:       record[colOutcome],
		Details:       record[colDetails],
	}, nil
}

// Append writes entries to <workspace>/logs/sync-log.csv, creating the
// file and header if needed.
func Append(workspace string, entries []Entry) error {
	dir := filepath.Join(workspace, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(workspace, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening sync log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return cw.Error()
}

// Read returns all entries from <workspace>/logs/sync-log.csv.
func Read(workspace string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(workspace, logFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening sync log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = numFields

	var entries []Entry
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading sync log: %w", err)
		}
		if first {
			first = false
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
