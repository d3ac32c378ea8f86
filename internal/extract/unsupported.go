package extract

import (
	"context"

	"github.com/capsresources/resource-organizer/internal/common"
)

// Unsupported stands in for formats with no text adapter, such as archives.
// Classification then relies on the filename alone.
type Unsupported struct{}

func (Unsupported) Name() string { return "none" }

func (Unsupported) Available() bool { return true }

func (Unsupported) Extract(context.Context, string) (Result, error) {
	return Result{Method: "none"}, common.ErrUnsupported
}
