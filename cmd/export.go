package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/acidentes-dashboard/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one aggregation of the log to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := computeView(cmd)
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrap(err, "create workbook")
		}
		if err := export.WriteXLSX(f, viewName+"-"+viewState, tbl); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrap(err, "close workbook")
		}

		zap.L().Info("export complete",
			zap.String("file", exportOut),
			zap.String("view", viewName),
			zap.String("state", viewState),
			zap.Int("rows", tbl.Len()),
		)
		return nil
	},
}

func init() {
	addViewFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output .xlsx path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
