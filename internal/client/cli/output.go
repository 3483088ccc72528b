package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/client"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/editor"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
)

func (a *App) printVehicle(v *models.Vehicle) {
	a.printf("id:          %s\n", v.ID)
	a.printf("make:        %s\n", v.Make)
	a.printf("model:       %s\n", v.Model)
	a.printf("year:        %d\n", v.Year)
	a.printf("price:       %d\n", v.Price)
	a.printf("mileage:     %d\n", v.Mileage)
	a.printf("cover:       %s\n", v.CoverImageURL)
	a.printf("description: %s\n", v.Description)
}

func (a *App) printResult(res *models.SubmissionResult) {
	a.printf("vehicle %s settled\n", res.VehicleID)
	if res.CoverImageUpdated {
		a.printf("cover image: %s\n", res.CoverImageURL)
	}
	if !res.Partial() {
		return
	}
	a.printf("%d operation(s) failed:\n", len(res.Failures))
	for _, f := range res.Failures {
		a.printf("  %-13s %s: %s\n", f.Op, f.Item, f.Error)
	}
}

func (a *App) printSnapshots(snaps []gallery.Snapshot) {
	if len(snaps) == 0 {
		a.printf("no photos\n")
		return
	}
	for i, s := range snaps {
		a.printf("%3d %s %s %s\n", i+1, star(s.IsFeatured), s.ID, s.URL)
	}
}

func (a *App) printItems(items []editor.MediaItem) {
	if len(items) == 0 {
		a.printf("no photos\n")
		return
	}
	for i, it := range items {
		switch it := it.(type) {
		case *editor.NewItem:
			preview := "(preview pending)"
			if it.Preview != nil {
				if uri, ok := it.Preview.URI(); ok {
					preview = uri
				}
			}
			a.printf("%3d %s new      %s %s %s\n", i+1, star(it.IsFeatured), it.LocalID, it.Binary.Name(), preview)
		case *editor.ExistingItem:
			a.printf("%3d %s existing %s %s\n", i+1, star(it.IsFeatured), it.PersistedID, it.RemoteURI)
		}
	}
}

func (a *App) printChangeSet(cs gallery.ChangeSet) {
	for _, e := range cs.Metadata {
		a.printf("%3d %s %-8s %s\n", e.OrderIndex, star(e.IsFeatured), e.Origin, e.Identity())
	}
	for _, d := range cs.Deletions {
		a.printf("  - delete   %s %s\n", d.PersistedID, d.StorageKey)
	}
}

func star(featured bool) string {
	if featured {
		return "*"
	}
	return " "
}

// submitError explains what a failed submission means for the edits.
func submitError(err error) error {
	var verr *client.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("vehicle rejected, nothing was saved: %w", err)
	case errors.Is(err, common.ErrMalformedChangeSet):
		return fmt.Errorf("gallery rejected, nothing was saved: %w", err)
	default:
		return fmt.Errorf("submission failed, the server may have applied part of it: %w", err)
	}
}

// resolveRef maps a 1-based position or an item id to an item id.
func resolveRef(items []editor.MediaItem, ref string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("no photo at position %d", n)
		}
		return items[n-1].ID(), nil
	}
	for _, it := range items {
		if it.ID() == ref {
			return ref, nil
		}
	}
	return "", fmt.Errorf("unknown photo %q", ref)
}

// removeRefs resolves every ref before removing so positions refer to the
// order shown to the user.
func removeRefs(s *editor.Session, refs []string) error {
	items := s.Items()
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := resolveRef(items, ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	for _, id := range ids {
		if err := s.Remove(id); err != nil {
			return err
		}
	}
	return nil
}
