package port

import (
	"context"

	"github.com/OwenK944/discompress/internal/domain"
)

// MediaInspector extracts structural metadata from an input file.
type MediaInspector interface {
	Probe(ctx context.Context, inputPath string) (*domain.ProbeResult, error)
}

// EncodeRequest carries the parameters of a single encoder run.
type EncodeRequest struct {
	InputPath  string
	OutputPath string
	VideoKbps  int
	AudioKbps  int
	MaxWidth   int
}

// MediaEncoder runs the external transcoder once. A returned error means the
// output must be treated as absent.
type MediaEncoder interface {
	Encode(ctx context.Context, req EncodeRequest) error
}
