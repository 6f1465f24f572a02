// Package batch holds the writable source of truth for one statement
// batch's transactions.
package batch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ledgerlink-dev/ledgerlink/internal/classify"
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

var (
	// ErrSourceUnavailable means ingestion failed or produced a
	// malformed record; nothing is partially loaded.
	ErrSourceUnavailable = errors.New("statement source unavailable")

	// ErrNotFound means an operation referenced a transaction id that
	// is no longer in the store.
	ErrNotFound = errors.New("transaction not found")
)

// Store is the authoritative in-memory collection of transactions for
// one batch. All operations are serialized; readers get copies.
type Store struct {
	mu       sync.Mutex
	txns     []model.Transaction
	index    map[string]int
	selected map[string]struct{}
	revs     map[string]uint64
	ledgers  classify.LedgerChecker
}

// NewStore creates an empty Store. Statuses are derived against the
// given ledger registry.
func NewStore(ledgers classify.LedgerChecker) *Store {
	return &Store{
		index:    make(map[string]int),
		selected: make(map[string]struct{}),
		revs:     make(map[string]uint64),
		ledgers:  ledgers,
	}
}

// Load replaces the whole collection with normalized raw records. On
// any malformed record (missing id, negative amount, zero date,
// duplicate id) it fails with ErrSourceUnavailable and leaves the
// store in its pre-call state.
func (s *Store) Load(records []model.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := make([]model.Transaction, 0, len(records))
	index := make(map[string]int, len(records))
	for i, rec := range records {
		t, err := normalize(rec)
		if err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrSourceUnavailable, i+1, err)
		}
		if _, dup := index[t.ID]; dup {
			return fmt.Errorf("%w: record %d: duplicate id %q", ErrSourceUnavailable, i+1, t.ID)
		}
		t.Status = classify.DeriveStatus(t, s.ledgers)
		index[t.ID] = len(txns)
		txns = append(txns, t)
	}

	s.txns = txns
	s.index = index
	s.selected = make(map[string]struct{})
	s.revs = make(map[string]uint64)
	return nil
}

// Restore replaces the collection with previously persisted
// transactions, re-deriving statuses against the current registry.
func (s *Store) Restore(txns []model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txns = make([]model.Transaction, len(txns))
	s.index = make(map[string]int, len(txns))
	s.selected = make(map[string]struct{})
	s.revs = make(map[string]uint64)
	for i, t := range txns {
		t.Status = classify.DeriveStatus(t, s.ledgers)
		s.txns[i] = t
		s.index[t.ID] = i
	}
}

func normalize(rec model.RawRecord) (model.Transaction, error) {
	if rec.ID == "" {
		return model.Transaction{}, errors.New("missing id")
	}
	if rec.Date.IsZero() {
		return model.Transaction{}, errors.New("missing date")
	}
	if rec.Withdrawal.IsNegative() || rec.Deposit.IsNegative() {
		return model.Transaction{}, fmt.Errorf("negative amount for %s", rec.ID)
	}

	t := model.Transaction{
		ID:         rec.ID,
		Date:       rec.Date,
		Narration:  rec.Narration,
		LedgerName: rec.LedgerName,
	}
	if rec.Withdrawal.IsPositive() {
		t.Direction = model.DirectionDebit
		t.Amount = rec.Withdrawal
	} else {
		t.Direction = model.DirectionCredit
		t.Amount = rec.Deposit
	}

	t.VoucherType = rec.VoucherType
	if t.VoucherType == "" || !classify.IsAllowed(t.VoucherType, t.Direction) {
		t.VoucherType = classify.DefaultVoucherType(t.Direction)
	}
	return t, nil
}

// FieldPatch describes a field-level edit. Nil fields are untouched.
type FieldPatch struct {
	Narration   *string
	Remark      *string
	Direction   *model.Direction
	VoucherType *model.VoucherType
	LedgerName  *string
}

// Update applies a field patch to the transaction with the given id.
// Direction changes route through the classification rules, status is
// re-derived, and the record is marked as having unsynchronized edits.
// Returns ErrNotFound for an unknown id.
func (s *Store) Update(id string, patch FieldPatch) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	t := &s.txns[i]
	if patch.Narration != nil {
		t.Narration = *patch.Narration
	}
	if patch.Remark != nil {
		t.Remark = *patch.Remark
	}
	if patch.Direction != nil {
		classify.ApplyDirectionChange(t, *patch.Direction)
	}
	if patch.VoucherType != nil {
		classify.ApplyVoucherChange(t, *patch.VoucherType)
	}
	if patch.LedgerName != nil {
		t.LedgerName = *patch.LedgerName
	}

	t.Status = classify.DeriveStatus(*t, s.ledgers)
	t.Synced = false
	s.revs[id]++
	return *t, nil
}

// Remove deletes the transaction outright and drops it from the
// selection set. Removing an absent id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}

	s.txns = append(s.txns[:i], s.txns[i+1:]...)
	delete(s.index, id)
	delete(s.selected, id)
	delete(s.revs, id)
	for j := i; j < len(s.txns); j++ {
		s.index[s.txns[j].ID] = j
	}
}

// Get returns a copy of the transaction with the given id.
func (s *Store) Get(id string) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Transaction{}, false
	}
	return s.txns[i], true
}

// All returns a copy of every transaction in insertion order.
func (s *Store) All() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Snapshot returns a copy of every transaction together with each
// record's edit revision, taken under one lock so the pair is
// consistent. The revisions feed MarkSynced after the sink responds.
func (s *Store) Snapshot() ([]model.Transaction, map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	revs := make(map[string]uint64, len(s.revs))
	for id, rev := range s.revs {
		revs[id] = rev
	}
	return out, revs
}

// Len returns the number of transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txns)
}

// Select adds an id to the selection set.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.selected[id] = struct{}{}
	return nil
}

// Deselect removes an id from the selection set.
func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// SelectAll replaces the selection with the given ids, typically the
// full filtered set. Unknown ids are ignored.
func (s *Store) SelectAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// Selected returns the selected ids in store order.
func (s *Store) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, t := range s.txns {
		if _, ok := s.selected[t.ID]; ok {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// MarkSynced flags the given transactions as accepted by the sink.
// With a non-nil asOf revision map, a record edited since that snapshot
// stays dirty: the sink accepted a state the record no longer holds,
// and the edit belongs to the next attempt.
func (s *Store) MarkSynced(ids []string, asOf map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		i, ok := s.index[id]
		if !ok {
			continue
		}
		if asOf != nil && s.revs[id] != asOf[id] {
			continue
		}
		s.txns[i].Synced = true
	}
}

// Unsynced returns the transactions with local-only edits.
func (s *Store) Unsynced() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Transaction
	for _, t := range s.txns {
		if !t.Synced {
			out = append(out, t)
		}
	}
	return out
}

// RefreshStatuses re-derives every status against the registry. Called
// after ledgers are created or pulled, since a pending transaction may
// reference a ledger that now exists.
func (s *Store) RefreshStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.txns {
		s.txns[i].Status = classify.DeriveStatus(s.txns[i], s.ledgers)
	}
}
