package cssbase64

import (
	"context"
	"fmt"
	"io"
)

// Document is one stylesheet flowing through a build pipeline.
//
// Contents holds the full text. A Document with neither Contents nor Stream
// is a null document and passes through untouched. Streamed documents are
// rejected: substitution needs the whole text in memory.
type Document struct {
	Path     string
	Contents []byte
	Stream   io.Reader
}

// IsNull reports whether the document carries no content at all.
func (d Document) IsNull() bool {
	return d.Contents == nil && d.Stream == nil
}

// IsStream reports whether the document content is a stream.
func (d Document) IsStream() bool {
	return d.Stream != nil
}

// Process rewrites a document and returns it with new Contents. Path is
// propagated unchanged; the input document is not modified.
func (e *Engine) Process(ctx context.Context, doc Document) (Document, error) {
	if doc.IsStream() {
		return doc, fmt.Errorf("%w: %s", ErrStreamNotSupported, doc.Path)
	}
	if doc.IsNull() {
		return doc, nil
	}

	result, err := e.Rewrite(ctx, string(doc.Contents), doc.Path)
	if err != nil {
		return doc, fmt.Errorf("rewriting %s: %w", doc.Path, err)
	}

	out := doc
	out.Contents = []byte(result.Text)
	return out, nil
}
