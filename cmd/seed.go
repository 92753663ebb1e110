package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"netcontrol/internal/bootstrap"
	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/domain/record"
	"netcontrol/internal/errs"
	"netcontrol/internal/transport/rest"
	"netcontrol/internal/usecase/opslog"
)

type seedGroup struct {
	kind record.Kind
	rows []map[string]any
}

// Starter reference data for a fresh instance. Mile-marker locations and
// the responding agencies are race-day conventions; operators adjust them
// through the reference endpoints afterwards.
var seedGroups = []seedGroup{
	{
		kind: record.KindAgency,
		rows: []map[string]any{
			{"name": "arl_fire", "display_name": "Arlington Fire"},
			{"name": "dc_fems", "display_name": "DC FEMS"},
			{"name": "law", "display_name": "Law Enforcement"},
		},
	},
	{
		kind: record.KindObservationCategory,
		rows: []map[string]any{
			{"name": "Male"},
			{"name": "Female"},
			{"name": "Wheelchair"},
		},
	},
	{
		kind: record.KindLocation,
		rows: []map[string]any{
			{"name": "MM0"}, {"name": "MM1"}, {"name": "MM2"}, {"name": "MM3"},
			{"name": "MM4"}, {"name": "MM5"}, {"name": "MM6"}, {"name": "MM7"},
			{"name": "MM8"}, {"name": "MM9"}, {"name": "MM10"}, {"name": "MM11"},
			{"name": "MM12"}, {"name": "MM13"}, {"name": "Finish"},
		},
	},
	{
		kind: record.KindAssignment,
		rows: []map[string]any{
			{"name": "Net Control"},
		},
	},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load starter reference data into an empty database",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *opslog.Service, _ *rest.Server) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		seeded := 0
		for _, group := range seedGroups {
			existing, err := svc.ListReference(ctx, group.kind, "")
			if err != nil {
				return errs.Wrapf(err, "list %s", group.kind)
			}
			if len(existing) > 0 {
				logging.Info(ctx, "reference table already populated, skipping",
					slog.String("kind", string(group.kind)),
					slog.Int("rows", len(existing)))
				continue
			}
			for _, fields := range group.rows {
				if _, err := svc.CreateReference(ctx, group.kind, fields); err != nil {
					return errs.Wrapf(err, "seed %s", group.kind)
				}
				seeded++
			}
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "seed finished: %d rows created\n", seeded); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
