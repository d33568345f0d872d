package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

var (
	viewState  string
	viewName   string
	viewCauses []string
	aggRecords bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Print one aggregation of the log as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := computeView(cmd)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if aggRecords {
			return eris.Wrap(enc.Encode(tbl.Records()), "encode records")
		}
		return eris.Wrap(enc.Encode(tbl), "encode table")
	},
}

// computeView builds the dashboard and evaluates the selected view.
func computeView(cmd *cobra.Command) (aggregate.Table, error) {
	ctx := cmd.Context()

	view := model.View(viewName)
	if !view.Valid() {
		return aggregate.Table{}, eris.Errorf("unknown view %q", viewName)
	}

	env, err := initDashboard(ctx, cfg)
	if err != nil {
		return aggregate.Table{}, err
	}
	defer env.Close() //nolint:errcheck

	tbl, err := env.Service.View(ctx, viewState, view, viewCauses)
	return tbl, eris.Wrapf(err, "compute %s", view)
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&viewState, "state", "BR", "scope: BR or a UF code")
	cmd.Flags().StringVar(&viewName, "view", string(model.ViewRegions), "regions, timeline, causes or points")
	cmd.Flags().StringArrayVar(&viewCauses, "cause", nil, "cause to include in the causes view (repeatable)")
}

func init() {
	addViewFlags(aggregateCmd)
	aggregateCmd.Flags().BoolVar(&aggRecords, "records", false, "print rows as column-keyed objects")
	rootCmd.AddCommand(aggregateCmd)
}
