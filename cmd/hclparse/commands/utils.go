package commands

import (
	"context"

	"github.com/panyam/hclexpr/loader"
)

// Paths on the command line are relative to the working directory
var diskFS = loader.NewLocalFS("")

// loadArgs loads the files named on the command line, replacing each
// directory by the files in it with the configured extension.
func loadArgs(ctx context.Context, args []string) (*loader.LoadResult, error) {
	return newLoader().LoadPaths(ctx, cfg.Extension, args...)
}
