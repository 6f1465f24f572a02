// Package ledgers holds the catalog of ledgers a batch's transactions
// reference by name.
package ledgers

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

var (
	// ErrDuplicateName means a ledger with that exact name already
	// exists; the registry is unchanged.
	ErrDuplicateName = errors.New("ledger name already exists")

	// ErrUnknownGroup means the parent group is not one of the fixed
	// accounting groups.
	ErrUnknownGroup = errors.New("unknown parent group")
)

// Registry is the mutable ledger catalog, ordered by insertion.
// Ledgers are only ever created, never updated or deleted.
type Registry struct {
	ledgers []model.Ledger
	byName  map[string]int
}

// NewRegistry creates a Registry seeded from a ledger catalog. Seed
// rows with a name already seen are skipped, first occurrence wins.
func NewRegistry(seed []model.Ledger) *Registry {
	r := &Registry{byName: make(map[string]int, len(seed))}
	for _, l := range seed {
		if _, ok := r.byName[l.Name]; ok {
			continue
		}
		r.byName[l.Name] = len(r.ledgers)
		r.ledgers = append(r.ledgers, l)
	}
	return r
}

// All returns every ledger in insertion order.
func (r *Registry) All() []model.Ledger {
	out := make([]model.Ledger, len(r.ledgers))
	copy(out, r.ledgers)
	return out
}

// Names returns all ledger names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ledgers))
	for i, l := range r.ledgers {
		names[i] = l.Name
	}
	return names
}

// Get returns a ledger by exact name.
func (r *Registry) Get(name string) (model.Ledger, bool) {
	i, ok := r.byName[name]
	if !ok {
		return model.Ledger{}, false
	}
	return r.ledgers[i], true
}

// Exists reports whether a ledger name exists. Satisfies the
// classification rules' LedgerChecker.
func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Len returns the number of ledgers.
func (r *Registry) Len() int {
	return len(r.ledgers)
}

// Create appends a new ledger with a fresh id. The name must not
// already exist (case-sensitive) and the parent group must be one of
// the fixed accounting groups. GSTIN and state code are optional.
func (r *Registry) Create(name, parentGroup, gstin, stateCode string) (model.Ledger, error) {
	if name == "" {
		return model.Ledger{}, errors.New("ledger name is required")
	}
	if _, ok := r.byName[name]; ok {
		return model.Ledger{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if !model.IsParentGroup(parentGroup) {
		return model.Ledger{}, fmt.Errorf("%w: %q", ErrUnknownGroup, parentGroup)
	}

	l := model.Ledger{
		ID:          uuid.NewString(),
		Name:        name,
		ParentGroup: parentGroup,
		GSTIN:       gstin,
		StateCode:   stateCode,
	}
	r.byName[name] = len(r.ledgers)
	r.ledgers = append(r.ledgers, l)
	return l, nil
}
