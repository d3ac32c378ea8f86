// Package cli implements the resource-organizer commands.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/extract"
)

var (
	configPath string
	logFormat  string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "resource-organizer",
	Short:         "Classify and organize CAPS teaching resources",
	Long:          "Reads a folder of teaching documents, infers grade, subject, type and year, copies them into a grade/subject tree and records the result in a manifest.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $ORGANIZER_CONFIG)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func loadConfig() (*common.Config, error) {
	return common.LoadConfig(configPath)
}

func newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler
	if logFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		// message and attributes only; the console summary carries the timing
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		}
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func limitsFrom(cfg *common.Config) extract.Limits {
	l := extract.Limits{
		PDFPages:       cfg.Extract.PDFPages,
		WordParagraphs: cfg.Extract.WordParagraphs,
		ExcelCells:     cfg.Extract.ExcelCells,
		SlideCount:     cfg.Extract.SlideCount,
		LegacyBytes:    cfg.Extract.LegacyBytes,
	}
	if l.LegacyBytes <= 0 {
		l.LegacyBytes = extract.DefaultLimits().LegacyBytes
	}
	return l
}

func newRegistry(cfg *common.Config, logger *slog.Logger) *extract.Registry {
	pdftotext := cfg.Extract.Pdftotext
	if cfg.Extract.DisablePdftotext {
		pdftotext = ""
	}
	return extract.NewDefaultRegistry(limitsFrom(cfg), pdftotext, extract.ExecRunner{}, logger)
}

// ExitCode maps a command error to a process exit status: 2 for setup
// problems the operator must fix, 1 for everything else.
func ExitCode(err error) int {
	switch common.CodeOf(err) {
	case "":
		if err == nil {
			return 0
		}
		return 1
	case "CONFIG_ERROR", "INPUT_ROOT_MISSING":
		return 2
	default:
		return 1
	}
}
