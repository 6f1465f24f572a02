package bulk

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ledgerlink-dev/ledgerlink/internal/batch"
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// ErrSyncInProgress means a synchronization for this batch is already
// in flight; the submission is rejected, not queued.
var ErrSyncInProgress = errors.New("synchronization already in progress")

// Outcome is the terminal state of one synchronization attempt.
type Outcome string

const (
	OutcomeSucceeded       Outcome = "succeeded"
	OutcomePartiallyFailed Outcome = "partially-failed"
	OutcomeFailed          Outcome = "failed"
)

// Sink accepts a batch payload in one request. A nil result slice with
// a nil error is uniform success; a non-nil slice carries per-record
// outcomes; a non-nil error means the call itself did not complete and
// no per-record detail exists.
type Sink interface {
	PushVouchers(ctx context.Context, records []VoucherRecord) ([]model.SyncResult, error)
}

// Result describes one finished synchronization attempt.
type Result struct {
	Outcome   Outcome
	Attempted int
	Records   []model.SyncResult // per-record detail, set unless the call itself failed
	Err       error              // underlying sink error when Outcome is Failed
}

// Failed returns the ids of records the sink rejected.
func (r Result) Failed() []string {
	var ids []string
	for _, rec := range r.Records {
		if !rec.Succeeded {
			ids = append(ids, rec.TransactionID)
		}
	}
	return ids
}

// Coordinator drives at most one in-flight synchronization per batch.
// There is no cancellation and no automatic retry: once submitted it
// awaits the sink's terminal response, and failed records are only
// retried by an explicit new submission.
type Coordinator struct {
	mu         sync.Mutex
	inFlight   bool
	sink       Sink
	bankLedger string
	log        *log.Logger
}

// NewCoordinator creates a Coordinator pushing against the given bank
// ledger.
func NewCoordinator(sink Sink, bankLedger string) *Coordinator {
	return &Coordinator{
		sink:       sink,
		bankLedger: bankLedger,
		log:        log.NewWithOptions(os.Stderr, log.Options{Prefix: "sync"}),
	}
}

// InFlight reports whether a synchronization is currently running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Push seals the store's current state into a payload and submits it.
// With a non-empty only list, just those ids are included (retrying a
// failed subset). Edits made while the push is in flight land in the
// next attempt, not this one. A concurrent Push fails fast with
// ErrSyncInProgress.
func (c *Coordinator) Push(ctx context.Context, st *batch.Store, only []string) (Result, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Result{}, ErrSyncInProgress
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// Seal the snapshot at submit time. The revisions let MarkSynced
	// skip records edited while the push is in flight.
	txns, revs := st.Snapshot()
	if len(only) > 0 {
		txns = filterByID(txns, only)
	}
	records := EncodeBatch(txns, c.bankLedger)
	if len(records) == 0 {
		return Result{Outcome: OutcomeSucceeded}, nil
	}

	c.log.Info("submitting batch", "records", len(records))
	perRecord, err := c.sink.PushVouchers(ctx, records)
	if err != nil {
		// No per-record detail; the whole batch stays unsynchronized.
		c.log.Error("batch submission failed", "err", err)
		return Result{Outcome: OutcomeFailed, Attempted: len(records), Err: err}, err
	}

	if perRecord == nil {
		perRecord = make([]model.SyncResult, len(records))
		for i, rec := range records {
			perRecord[i] = model.SyncResult{TransactionID: rec.ID, Succeeded: true}
		}
	}

	var synced []string
	failed := 0
	for _, res := range perRecord {
		if res.Succeeded {
			synced = append(synced, res.TransactionID)
		} else {
			failed++
		}
	}
	st.MarkSynced(synced, revs)

	result := Result{Outcome: OutcomeSucceeded, Attempted: len(records), Records: perRecord}
	if failed > 0 {
		result.Outcome = OutcomePartiallyFailed
		c.log.Warn("batch partially failed", "succeeded", len(synced), "failed", failed)
	} else {
		c.log.Info("batch accepted", "records", len(synced))
	}
	return result, nil
}

func filterByID(txns []model.Transaction, ids []string) []model.Transaction {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.Transaction
	for _, t := range txns {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}
