package reconcile

import (
	"errors"
	"fmt"
)

// Op names one backing-store operation of a reconciliation.
type Op string

const (
	OpUpload       Op = "upload"
	OpInsert       Op = "insert"
	OpUpdate       Op = "update"
	OpRemoveObject Op = "remove-object"
	OpDeleteRow    Op = "delete-row"
	OpCover        Op = "cover"
)

// Outcome is the result of one operation on one item. Item is the entry
// identity (local id for new entries, row id otherwise); it is the parent id
// for the cover step.
type Outcome struct {
	Op   Op
	Item string
	// URI is set by a successful upload.
	URI string
	// RowID is set by a successful insert.
	RowID string
	// StorageKey is the key read back from the row by an update or delete.
	StorageKey string
	Err   error

	seq int
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Report aggregates every outcome of a reconciliation. A Report never holds
// only the first failure: each operation contributes exactly one outcome.
type Report struct {
	ParentID string
	Settled  bool
	Outcomes []Outcome

	CoverURI     string
	CoverUpdated bool
}

// Failures returns the failed outcomes in report order.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// Err joins all failures into one error for logging. It is nil when every
// operation succeeded. The submission itself is never failed by it.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Failures() {
		errs = append(errs, fmt.Errorf("%s %s: %w", o.Op, o.Item, o.Err))
	}
	return errors.Join(errs...)
}

// Find returns the outcome of op for item.
func (r *Report) Find(op Op, item string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Op == op && o.Item == item {
			return o, true
		}
	}
	return Outcome{}, false
}
