// Package reconcile applies a gallery change-set to the object store and the
// relational rows. Per-item operations run concurrently and never abort each
// other; every result is collected into a Report.
package reconcile

import (
	"context"
	"errors"
	"sort"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/logging"
	"github.com/sourcegraph/conc/pool"
)

// ObjectStore holds the binaries. URL maps a storage path to the URL that
// Put would have returned for it.
type ObjectStore interface {
	Put(ctx context.Context, path string, b gallery.Binary) (string, error)
	Remove(ctx context.Context, path string) error
	URL(path string) string
}

// MediaRows is the relational side: gallery rows and the parent's
// denormalized cover field.
type MediaRows interface {
	InsertMediaRow(ctx context.Context, parentID, storageKey string, orderIndex int, isFeatured bool) (string, error)
	// UpdateMediaRow and DeleteMediaRow return the storage key held by the row.
	UpdateMediaRow(ctx context.Context, parentID, id string, orderIndex int, isFeatured bool) (string, error)
	DeleteMediaRow(ctx context.Context, parentID, id string) (string, error)
	UpdateParentCoverImage(ctx context.Context, parentID, uri string) error
}

const DefaultConcurrency = 8

var errMissingPayload = errors.New("missing payload")

type Procedure struct {
	store       ObjectStore
	rows        MediaRows
	log         logging.Logger
	concurrency int
}

type Option func(*Procedure)

// WithConcurrency bounds the number of items processed at once.
func WithConcurrency(n int) Option {
	return func(p *Procedure) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func New(store ObjectStore, rows MediaRows, log logging.Logger, opts ...Option) *Procedure {
	p := &Procedure{
		store:       store,
		rows:        rows,
		log:         log.With("module", "reconcile"),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run reconciles cs against parentID. The change-set must already be valid.
// Once started it runs to settlement: cancellation of ctx is ignored, so a
// dropped client connection cannot leave half the items unprocessed.
func (p *Procedure) Run(ctx context.Context, parentID string, cs gallery.ChangeSet) *Report {
	ctx = context.WithoutCancel(ctx)
	log := p.log.With("parent_id", parentID)

	tasks := pool.NewWithResults[[]Outcome]().WithMaxGoroutines(p.concurrency)

	seq := 0
	for _, e := range cs.Metadata {
		n := seq
		seq += 2
		switch e.Origin {
		case gallery.OriginNew:
			payload := cs.Payloads[e.LocalID]
			tasks.Go(func() []Outcome { return p.create(ctx, parentID, e, payload, n) })
		case gallery.OriginExisting:
			tasks.Go(func() []Outcome { return p.update(ctx, parentID, e, n) })
		}
	}
	for _, d := range cs.Deletions {
		n := seq
		seq += 2
		tasks.Go(func() []Outcome { return p.remove(ctx, parentID, d, n) })
	}

	var outcomes []Outcome
	for _, batch := range tasks.Wait() {
		outcomes = append(outcomes, batch...)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].seq < outcomes[j].seq })

	report := &Report{ParentID: parentID, Outcomes: outcomes}
	p.updateCover(ctx, parentID, cs, report)
	report.Settled = true

	for _, f := range report.Failures() {
		log.Error(ctx, "gallery operation failed", "item", f.Item, "op", string(f.Op), "error", f.Err)
	}
	log.Info(ctx, "reconciliation settled",
		"operations", len(report.Outcomes), "failures", len(report.Failures()), "cover_updated", report.CoverUpdated)

	return report
}

// create uploads a new binary and inserts its row. A failed upload skips the
// insert so no row ever points at a missing object.
func (p *Procedure) create(ctx context.Context, parentID string, e gallery.Entry, payload gallery.Binary, seq int) []Outcome {
	if payload == nil {
		return []Outcome{{Op: OpUpload, Item: e.LocalID, Err: errMissingPayload, seq: seq}}
	}

	uri, err := p.store.Put(ctx, gallery.StoragePath(parentID, e.LocalID), payload)
	upload := Outcome{Op: OpUpload, Item: e.LocalID, URI: uri, Err: err, seq: seq}
	if err != nil {
		upload.URI = ""
		return []Outcome{upload}
	}

	rowID, err := p.rows.InsertMediaRow(ctx, parentID, e.LocalID, e.OrderIndex, e.IsFeatured)
	return []Outcome{upload, {Op: OpInsert, Item: e.LocalID, RowID: rowID, Err: err, seq: seq + 1}}
}

func (p *Procedure) update(ctx context.Context, parentID string, e gallery.Entry, seq int) []Outcome {
	key, err := p.rows.UpdateMediaRow(ctx, parentID, e.PersistedID, e.OrderIndex, e.IsFeatured)
	return []Outcome{{Op: OpUpdate, Item: e.PersistedID, StorageKey: key, Err: err, seq: seq}}
}

// remove deletes the row, then the object at the key the row held. The
// client's storage key is never used as a path. A failed row delete skips
// the object so no row of another entry can lose its binary.
func (p *Procedure) remove(ctx context.Context, parentID string, d gallery.PendingDeletion, seq int) []Outcome {
	key, err := p.rows.DeleteMediaRow(ctx, parentID, d.PersistedID)
	row := Outcome{Op: OpDeleteRow, Item: d.PersistedID, StorageKey: key, Err: err, seq: seq}
	if err != nil {
		return []Outcome{row}
	}

	err = p.store.Remove(ctx, gallery.StoragePath(parentID, key))
	return []Outcome{row, {Op: OpRemoveObject, Item: d.PersistedID, StorageKey: key, Err: err, seq: seq + 1}}
}

// updateCover writes the featured image URL into the parent. Nothing is
// written when no entry is featured or the featured item's own operations
// failed. URLs are always derived from server-side state.
func (p *Procedure) updateCover(ctx context.Context, parentID string, cs gallery.ChangeSet, report *Report) {
	featured, ok := cs.Featured()
	if !ok {
		return
	}

	var uri string
	switch featured.Origin {
	case gallery.OriginNew:
		upload, _ := report.Find(OpUpload, featured.LocalID)
		insert, inserted := report.Find(OpInsert, featured.LocalID)
		if upload.Failed() || !inserted || insert.Failed() {
			return
		}
		uri = upload.URI
	case gallery.OriginExisting:
		update, updated := report.Find(OpUpdate, featured.PersistedID)
		if !updated || update.Failed() {
			return
		}
		uri = p.store.URL(gallery.StoragePath(parentID, update.StorageKey))
	}

	err := p.rows.UpdateParentCoverImage(ctx, parentID, uri)
	report.Outcomes = append(report.Outcomes, Outcome{Op: OpCover, Item: parentID, URI: uri, Err: err})
	if err == nil {
		report.CoverURI = uri
		report.CoverUpdated = true
	}
}
