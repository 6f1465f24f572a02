// Package view derives a filtered, paginated projection of a batch for
// display. It never mutates the store.
package view

import (
	"strings"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// Criteria is the current filter predicate. Zero-valued fields are
// inactive and match everything. String fields are case-insensitive
// substring matches; the amount matches as a substring of the decimal
// string, which deliberately lets "10" match "100".
type Criteria struct {
	Date        string
	Narration   string
	Amount      string
	Direction   model.Direction
	VoucherType model.VoucherType
	LedgerName  string
	Status      model.TransactionStatus
}

// IsZero reports whether no predicate is active.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Matches reports whether a transaction passes every active predicate.
func (c Criteria) Matches(t model.Transaction) bool {
	if c.Date != "" && !containsFold(t.DisplayDate(), c.Date) {
		return false
	}
	if c.Narration != "" && !containsFold(t.Narration, c.Narration) {
		return false
	}
	if c.Amount != "" && !strings.Contains(t.Amount.String(), c.Amount) {
		return false
	}
	if c.Direction != "" && t.Direction != c.Direction {
		return false
	}
	if c.VoucherType != "" && t.VoucherType != c.VoucherType {
		return false
	}
	if c.LedgerName != "" && t.LedgerName != c.LedgerName {
		return false
	}
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Filter returns the transactions passing the criteria, in order.
func Filter(txns []model.Transaction, c Criteria) []model.Transaction {
	if c.IsZero() {
		out := make([]model.Transaction, len(txns))
		copy(out, txns)
		return out
	}
	var out []model.Transaction
	for _, t := range txns {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// FilteredIDs returns the ids of the transactions passing the criteria,
// across all pages. This is the select-all source.
func FilteredIDs(txns []model.Transaction, c Criteria) []string {
	var ids []string
	for _, t := range txns {
		if c.Matches(t) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Window is a page over a filtered result.
type Window struct {
	Page int // 1-based
	Size int
}

// TotalPages returns ceil(count/size); zero when count is zero.
func TotalPages(count, size int) int {
	if size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Paginate returns the window's slice of the filtered set, clamped to
// the available length. A page beyond the end yields an empty slice.
func Paginate(filtered []model.Transaction, w Window) []model.Transaction {
	if w.Page < 1 || w.Size < 1 {
		return nil
	}
	start := (w.Page - 1) * w.Size
	if start >= len(filtered) {
		return nil
	}
	end := start + w.Size
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// Page is one rendered page of a batch.
type Page struct {
	Transactions []model.Transaction
	Index        int // clamped page index actually shown
	TotalPages   int
	Filtered     int // filtered count across all pages
}

// View holds the transient presentation state: criteria plus window.
// Any criteria or data change snaps the window back to page 1 so the
// operator is never left on a stale page.
type View struct {
	criteria Criteria
	window   Window
}

// New creates a View showing page 1 at the given page size.
func New(pageSize int) *View {
	return &View{window: Window{Page: 1, Size: pageSize}}
}

// Criteria returns the active filter criteria.
func (v *View) Criteria() Criteria {
	return v.criteria
}

// SetCriteria replaces the filter criteria and resets to page 1.
func (v *View) SetCriteria(c Criteria) {
	v.criteria = c
	v.window.Page = 1
}

// SetPage moves to a page. Values below 1 snap to 1; overshoot is
// clamped when the view is applied.
func (v *View) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.window.Page = page
}

// SetPageSize changes the page size and resets to page 1.
func (v *View) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	v.window.Size = size
	v.window.Page = 1
}

// Invalidate resets to page 1 after the underlying data changed.
func (v *View) Invalidate() {
	v.window.Page = 1
}

// Apply projects the transactions through the criteria and window. The
// page index is clamped to the last available page.
func (v *View) Apply(txns []model.Transaction) Page {
	filtered := Filter(txns, v.criteria)
	total := TotalPages(len(filtered), v.window.Size)

	w := v.window
	if total > 0 && w.Page > total {
		w.Page = total
	}

	return Page{
		Transactions: Paginate(filtered, w),
		Index:        w.Page,
		TotalPages:   total,
		Filtered:     len(filtered),
	}
}
