package service

import (
	"context"
)

// Clip is one input to a render. Still marks a photo that is shown for a
// fixed time.
type Clip struct {
	Source string
	Still  bool
}

// Stitcher concatenates clips in order into one file and returns its path.
// The caller owns the file.
type Stitcher interface {
	Stitch(ctx context.Context, clips []Clip) (string, error)
}
