package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
)

// SubmitFunc delivers a change-set to the server and returns once the server
// has settled it.
type SubmitFunc func(ctx context.Context, cs gallery.ChangeSet) error

// Session guards a Collection with the submission lifecycle: edits are only
// accepted while Collecting.
type Session struct {
	mu    sync.Mutex
	coll  *Collection
	state gallery.State
}

func NewSession(c *Collection) *Session {
	return &Session{coll: c, state: gallery.Collecting}
}

func (s *Session) State() gallery.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Items returns copies of the current items.
func (s *Session) Items() []MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Items()
}

func (s *Session) PendingDeletions() []gallery.PendingDeletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.PendingDeletions()
}

func (s *Session) ChangeSet() gallery.ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.ChangeSet()
}

func (s *Session) Seed(snapshots []gallery.Snapshot) (bool, error) {
	var seeded bool
	err := s.edit(func(c *Collection) { seeded = c.Seed(snapshots) })
	return seeded, err
}

func (s *Session) AddFiles(binaries []gallery.Binary) ([]string, error) {
	var ids []string
	err := s.edit(func(c *Collection) { ids = c.AddFiles(binaries) })
	return ids, err
}

func (s *Session) Remove(id string) error {
	return s.edit(func(c *Collection) { c.Remove(id) })
}

func (s *Session) Reorder(id string, toIndex int) error {
	return s.edit(func(c *Collection) { c.Reorder(id, toIndex) })
}

func (s *Session) MoveOver(activeID, overID string) error {
	return s.edit(func(c *Collection) { c.MoveOver(activeID, overID) })
}

func (s *Session) SetFeatured(id string) error {
	return s.edit(func(c *Collection) { c.SetFeatured(id) })
}

// Submit hands the current change-set to fn. While fn runs the session is
// Submitting and refuses edits. On success the session is Settled and its
// previews are released. When the server rejected the submission before
// reconciling (validation or malformed change-set) the session goes back to
// Collecting so it can be corrected. Any other error leaves the outcome
// unknown and the session stays Submitting; only Abandon is possible then.
func (s *Session) Submit(ctx context.Context, fn SubmitFunc) error {
	s.mu.Lock()
	if s.state != gallery.Collecting {
		s.mu.Unlock()
		return common.ErrNotCollecting
	}
	s.state = gallery.Submitting
	cs := s.coll.ChangeSet()
	s.mu.Unlock()

	err := fn(ctx, cs)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.state = gallery.Settled
		s.coll.Discard()
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrMalformedChangeSet):
		s.state = gallery.Collecting
	}
	return err
}

// Abandon ends the session without submitting and releases all previews.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == gallery.Settled || s.state == gallery.Abandoned {
		return
	}
	s.state = gallery.Abandoned
	s.coll.Discard()
}

func (s *Session) edit(fn func(*Collection)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != gallery.Collecting {
		return common.ErrNotCollecting
	}
	fn(s.coll)
	return nil
}
