package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capsresources/resource-organizer/internal/export"
	"github.com/capsresources/resource-organizer/internal/manifest"
)

var (
	exportManifest string
	exportOut      string
	exportFilter   export.Filter
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the manifest as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringVarP(&exportManifest, "manifest", "m", "", "Manifest path (default: <organized_root>/_organization_results.json)")
	cmd.Flags().StringVar(&exportOut, "out", "", "Output XLSX path (default: resources.xlsx next to the manifest)")
	cmd.Flags().StringVar(&exportFilter.Grade, "grade", "", "Only export this grade key, e.g. grade5")
	cmd.Flags().StringVar(&exportFilter.Subject, "subject", "", "Only export this subject")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := exportManifest
	if path == "" {
		path = cfg.ManifestPath()
	}
	out := exportOut
	if out == "" {
		out = filepath.Join(filepath.Dir(path), "resources.xlsx")
	}

	logger := newLogger(os.Stderr)

	records, err := manifest.Read(path)
	if err != nil {
		return err
	}
	data, err := export.NewService(logger).ExportRecordsXLSX(records, exportFilter)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
