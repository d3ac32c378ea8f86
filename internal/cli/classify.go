package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capsresources/resource-organizer/internal/classify"
	"github.com/capsresources/resource-organizer/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Show how files would be classified without copying them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runClassify,
	}

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)
	registry := newRegistry(cfg, logger)
	classifier := classify.New(logger)
	p := report.New(cmd.OutOrStdout())

	for _, path := range args {
		res := registry.Extract(cmd.Context(), path)
		p.Explain(path, classifier.Explain(res.Text, filepath.Base(path)))
	}
	return nil
}
