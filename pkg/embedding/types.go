package embedding

import "context"

// Embedder produces a fixed-length vector representation of a text. The call
// may be remote; implementations must honour context cancellation and
// deadlines.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
