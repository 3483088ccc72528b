package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/editor"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

func (a *App) galleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List and edit a vehicle's photos",
	}
	cmd.AddCommand(a.galleryListCmd(), a.galleryEditCmd())
	return cmd
}

func (a *App) galleryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <id>",
		Short: "Print a vehicle's photos in gallery order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := a.client.Gallery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printSnapshots(snaps)
			return nil
		},
	}
}

func (a *App) galleryEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a vehicle's photos interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := a.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Abandon()

			e := &galleryEditor{app: a, vehicleID: args[0], session: s}

			a.checkOnline(ctx)
			go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

			var status func() string
			if f, ok := a.in.(*os.File); ok && isTerminal(int(f.Fd())) {
				status = e.status
			}

			a.printf("Editing gallery of %s (type 'help' for commands)\n", args[0])
			runREPL(ctx, e, status, bufio.NewScanner(a.in))
			return nil
		},
	}
}

// galleryEditor runs the REPL commands against one editing session.
type galleryEditor struct {
	app       *App
	vehicleID string
	session   *editor.Session
}

var _ execIface = (*galleryEditor)(nil)

func (e *galleryEditor) status() string {
	return fmt.Sprintf("(%s) %s %s, %d photos", e.app.Mode(), e.vehicleID, e.session.State(), len(e.session.Items()))
}

func (e *galleryEditor) Done() bool {
	st := e.session.State()
	return st == gallery.Settled || st == gallery.Abandoned
}

func (e *galleryEditor) List(context.Context) error {
	e.app.printItems(e.session.Items())
	return nil
}

func (e *galleryEditor) Add(_ context.Context, patterns []string) error {
	before := len(e.session.Items())
	if err := e.app.addFiles(e.session, patterns); err != nil {
		return err
	}
	e.app.printf("added %d photo(s)\n", len(e.session.Items())-before)
	return nil
}

func (e *galleryEditor) Remove(_ context.Context, refs []string) error {
	return removeRefs(e.session, refs)
}

func (e *galleryEditor) Move(_ context.Context, ref, to string) error {
	id, err := resolveRef(e.session.Items(), ref)
	if err != nil {
		return err
	}
	pos, err := strconv.Atoi(to)
	if err != nil {
		return fmt.Errorf("bad position %q", to)
	}
	return e.session.Reorder(id, pos-1)
}

func (e *galleryEditor) Over(_ context.Context, ref, overRef string) error {
	items := e.session.Items()
	id, err := resolveRef(items, ref)
	if err != nil {
		return err
	}
	over, err := resolveRef(items, overRef)
	if err != nil {
		return err
	}
	return e.session.MoveOver(id, over)
}

func (e *galleryEditor) Feature(_ context.Context, ref string) error {
	id, err := resolveRef(e.session.Items(), ref)
	if err != nil {
		return err
	}
	return e.session.SetFeatured(id)
}

func (e *galleryEditor) Changes(context.Context) error {
	e.app.printChangeSet(e.session.ChangeSet())
	return nil
}

// Submit sends the change-set. A rejected submission leaves the session
// editable; an unknown outcome leaves abandon as the only way out.
func (e *galleryEditor) Submit(ctx context.Context) error {
	var res *models.SubmissionResult
	err := e.session.Submit(ctx, func(ctx context.Context, cs gallery.ChangeSet) error {
		var err error
		res, err = e.app.client.SubmitGallery(ctx, e.vehicleID, cs)
		return err
	})
	if err != nil {
		if e.session.State() == gallery.Collecting {
			return fmt.Errorf("%w; fix the gallery and submit again", submitError(err))
		}
		return fmt.Errorf("%w; abandon and reload the gallery", submitError(err))
	}
	e.app.printResult(res)
	return nil
}

func (e *galleryEditor) Abandon(context.Context) error {
	e.session.Abandon()
	e.app.printf("edits discarded\n")
	return nil
}
