package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/capsresources/resource-organizer/internal/catalog"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/manifest"
	"github.com/capsresources/resource-organizer/internal/report"
)

var importManifest string

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an organization manifest into the product catalog",
		Long:  "Reads the manifest written by organize and inserts one product per record. Records whose organized filename is already in the catalog are skipped.",
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}
	cmd.Flags().StringVarP(&importManifest, "manifest", "m", "", "Manifest path (default: <organized_root>/_organization_results.json)")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateCatalog(); err != nil {
		return err
	}
	path := importManifest
	if path == "" {
		path = cfg.ManifestPath()
	}

	logger := newLogger(os.Stderr)
	ctx := common.WithRunID(cmd.Context(), common.NewRunID())

	entries, err := manifest.Load(path)
	if err != nil {
		return err
	}

	store, err := catalog.Open(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	importer := catalog.NewImporter(catalog.NewProductRepository(store, logger), cfg.Catalog.PriceFor, logger)
	stats, err := importer.Import(ctx, entries)
	if err != nil {
		return err
	}
	report.New(cmd.OutOrStdout()).Import(stats)
	return nil
}
