package main

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/acidentes-dashboard/internal/dataset"
	"github.com/sells-group/acidentes-dashboard/internal/store"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the accident log into the configured SQL store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		path := importCSVPath
		if path == "" {
			path = cfg.Data.CSVPath
		}
		if path == "" {
			return eris.New("a log file is required (--csv or data.csv_path)")
		}

		st, err := store.OpenStore(ctx, cfg)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		rows, err := dataset.LoadFile(ctx, path, store.CSVOptions(cfg.Data))
		if err != nil {
			return eris.Wrap(err, "load log")
		}

		batchID := uuid.NewString()
		n, err := st.ReplaceAccidents(ctx, batchID, rows)
		if err != nil {
			return eris.Wrap(err, "replace accidents")
		}

		zap.L().Info("import complete",
			zap.String("batch_id", batchID),
			zap.Int64("rows", n),
			zap.String("source", cfg.Data.Source),
			zap.String("file", path),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to the log (CSV, ZIP or XLSX; default data.csv_path)")
	rootCmd.AddCommand(importCmd)
}
