// Package image adapts Gradio-hosted inference spaces to the two capabilities
// the relay needs: text-to-image generation and content+style transfer.
package image

import (
	"context"

	"stylerelay/internal/providers/gradio"
)

// Result is a single normalized provider output. URL is always an absolute
// URL; Data is populated when the adapter downloaded the bytes itself.
type Result struct {
	URL  string
	Data []byte
	MIME string
}

// Generator produces an image from a textual prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}

// Transformer restyles a content image using a reference style image.
type Transformer interface {
	Transform(ctx context.Context, content, style []byte) (*Result, error)
}

// spaceClient is the slice of the gradio client the adapters rely on, kept
// narrow so tests can substitute a stub.
type spaceClient interface {
	Predict(ctx context.Context, endpoint string, data []any) ([]any, error)
	Upload(ctx context.Context, data []byte, filename string) (gradio.FileData, error)
	FetchBytes(ctx context.Context, url string) ([]byte, string, error)
	FileURL(path string) string
}
