// Package extract defines the boundary to the document text-extraction
// capability (OCR, PDF parsing). The service only consumes this interface;
// the implementation lives in a separate system.
package extract

import "context"

// TextExtractor returns the plain text contained in a document. The call may
// be remote and must honour context cancellation.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}
