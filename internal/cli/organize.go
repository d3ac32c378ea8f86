package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/capsresources/resource-organizer/internal/classify"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/pipeline"
	"github.com/capsresources/resource-organizer/internal/report"
)

var (
	organizeInput   string
	organizeOutput  string
	organizeDryRun  bool
	organizeExclude []string
	organizeExts    []string
	organizeList    bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Classify and copy every resource into the organized tree",
		Long:  "Walks the input folder, classifies each supported document and copies it to <output>/<grade>/<subject>/ under a synthesized name. The manifest is written to the output root when the run ends.",
		Args:  cobra.NoArgs,
		RunE:  runOrganize,
	}
	cmd.Flags().StringVarP(&organizeInput, "input", "i", "", "Input folder (default: config paths.input_root)")
	cmd.Flags().StringVarP(&organizeOutput, "output", "o", "", "Organized output folder (default: config paths.organized_root)")
	cmd.Flags().BoolVar(&organizeDryRun, "dry-run", false, "Classify and plan names without copying or writing the manifest")
	cmd.Flags().StringSliceVar(&organizeExclude, "exclude", nil, "Glob of input-relative paths to skip (repeatable)")
	cmd.Flags().StringSliceVar(&organizeExts, "ext", nil, "Extensions to pick up (default: config walk.extensions)")
	cmd.Flags().BoolVar(&organizeList, "list", false, "Print every organized file")

	RootCmd.AddCommand(cmd)
}

func runOrganize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if organizeInput != "" {
		cfg.Paths.InputRoot = organizeInput
	}
	if organizeOutput != "" {
		cfg.Paths.OrganizedRoot = organizeOutput
	}
	if len(organizeExts) > 0 {
		cfg.Walk.Extensions = organizeExts
	}
	cfg.Walk.Exclude = append(cfg.Walk.Exclude, organizeExclude...)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(os.Stderr)
	ctx := common.WithRunID(cmd.Context(), common.NewRunID())

	processor := pipeline.NewProcessor(logger, newRegistry(cfg, logger), classify.New(logger), cfg.Paths.OrganizedRoot)
	batch := pipeline.NewBatch(pipeline.BatchConfig{
		InputRoot:     cfg.Paths.InputRoot,
		OrganizedRoot: cfg.Paths.OrganizedRoot,
		ManifestPath:  cfg.ManifestPath(),
		Extensions:    cfg.Walk.Extensions,
		Exclude:       cfg.Walk.Exclude,
		SkipHidden:    cfg.Walk.SkipHidden,
		DryRun:        organizeDryRun,
	}, processor, logger)

	res, err := batch.Run(ctx)
	if err != nil {
		return err
	}

	p := report.New(cmd.OutOrStdout())
	if organizeList {
		for _, rec := range res.Records {
			p.Record(rec)
		}
	}
	p.Run(res)
	return nil
}
