package cli

import (
	"context"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/editor"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/spf13/cobra"
)

type vehicleFlags struct {
	fields   models.VehicleFields
	images   []string
	remove   []string
	featured string
}

func (f *vehicleFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.fields.Make, "make", "", "manufacturer")
	fs.StringVar(&f.fields.Model, "model", "", "model name")
	fs.IntVar(&f.fields.Year, "year", 0, "model year")
	fs.Int64Var(&f.fields.Price, "price", 0, "price in whole currency units")
	fs.IntVar(&f.fields.Mileage, "mileage", 0, "mileage in km")
	fs.StringVar(&f.fields.Description, "description", "", "free text description")
	fs.StringArrayVarP(&f.images, "image", "I", nil, "image file or glob to add (repeatable)")
	fs.StringVar(&f.featured, "featured", "", "position or id of the photo to feature")
}

// merge overlays the fields given on the command line onto cur.
func (f *vehicleFlags) merge(cmd *cobra.Command, cur models.VehicleFields) models.VehicleFields {
	fs := cmd.Flags()
	if fs.Changed("make") {
		cur.Make = f.fields.Make
	}
	if fs.Changed("model") {
		cur.Model = f.fields.Model
	}
	if fs.Changed("year") {
		cur.Year = f.fields.Year
	}
	if fs.Changed("price") {
		cur.Price = f.fields.Price
	}
	if fs.Changed("mileage") {
		cur.Mileage = f.fields.Mileage
	}
	if fs.Changed("description") {
		cur.Description = f.fields.Description
	}
	return cur
}

func (a *App) vehicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Show, create and update vehicles",
	}
	cmd.AddCommand(a.vehicleShowCmd(), a.vehicleCreateCmd(), a.vehicleUpdateCmd())
	return cmd
}

func (a *App) vehicleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.client.Vehicle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printVehicle(v)
			return nil
		},
	}
}

func (a *App) vehicleCreateCmd() *cobra.Command {
	var f vehicleFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vehicle together with its photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.newSession()
			defer s.Abandon()

			if err := a.applyEdits(s, &f); err != nil {
				return err
			}

			var res *models.SubmissionResult
			err := s.Submit(cmd.Context(), func(ctx context.Context, cs gallery.ChangeSet) error {
				var err error
				res, err = a.client.CreateVehicle(ctx, f.fields, cs)
				return err
			})
			if err != nil {
				return submitError(err)
			}
			a.printResult(res)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) vehicleUpdateCmd() *cobra.Command {
	var f vehicleFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a vehicle's fields and photos",
		Long: `Update a vehicle. Only the fields given are changed. Photos are
removed first (--remove), then added (--image); --featured refers to the
resulting order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			v, err := a.client.Vehicle(ctx, id)
			if err != nil {
				return err
			}
			fields := f.merge(cmd, v.Fields())

			s, err := a.openSession(ctx, id)
			if err != nil {
				return err
			}
			defer s.Abandon()

			if err := removeRefs(s, f.remove); err != nil {
				return err
			}
			if err := a.applyEdits(s, &f); err != nil {
				return err
			}

			var res *models.SubmissionResult
			err = s.Submit(ctx, func(ctx context.Context, cs gallery.ChangeSet) error {
				var err error
				res, err = a.client.UpdateVehicle(ctx, id, fields, cs)
				return err
			})
			if err != nil {
				return submitError(err)
			}
			a.printResult(res)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringArrayVar(&f.remove, "remove", nil, "position or id of a photo to remove (repeatable)")
	return cmd
}

// openSession seeds a new editing session with the vehicle's persisted gallery.
func (a *App) openSession(ctx context.Context, vehicleID string) (*editor.Session, error) {
	snaps, err := a.client.Gallery(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	s := a.newSession()
	if _, err := s.Seed(snaps); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) applyEdits(s *editor.Session, f *vehicleFlags) error {
	if err := a.addFiles(s, f.images); err != nil {
		return err
	}
	if f.featured == "" {
		return nil
	}
	id, err := resolveRef(s.Items(), f.featured)
	if err != nil {
		return err
	}
	return s.SetFeatured(id)
}

func (a *App) addFiles(s *editor.Session, patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}
	bins, err := editor.SelectFiles(a.fs, patterns...)
	if err != nil {
		return err
	}
	_, err = s.AddFiles(bins)
	return err
}
