package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phantomworx/cq-intel/internal/export"
	"github.com/phantomworx/cq-intel/internal/query"
)

const exportTitle = "CQ Line Pilot Comments"

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered result list",
	}
	cmd.AddCommand(newExportFormatCmd("csv"), newExportFormatCmd("pdf"))
	return cmd
}

func newExportFormatCmd(kind string) *cobra.Command {
	var qf queryFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   kind,
		Short: fmt.Sprintf("Export the filtered result list as %s", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := qf.options(cmd)
			if err != nil {
				return err
			}

			rep, err := loadWorkingSet(cmd, qf.force)
			if err != nil {
				return err
			}

			visible := query.Run(rep.entries, opts)
			if len(visible) == 0 {
				return fmt.Errorf("no entries to export")
			}

			path := outPath
			if path == "" {
				path = fmt.Sprintf("cq_comments_export_%s.%s", time.Now().Format("2006-01-02"), kind)
			}

			out, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer out.Close()

			var exporter export.Exporter
			switch kind {
			case "csv":
				err = exporter.CSV(out, visible)
			case "pdf":
				err = exporter.PDF(out, exportTitle, visible)
			}
			if err != nil {
				return fmt.Errorf("exporting %s: %w", kind, err)
			}

			fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(visible), path)
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default cq_comments_export_<date>)")
	return cmd
}
