package render

import (
	"context"

	"github.com/ByLCY/mondrian/page"
)

// ForDocument binds a renderer to the first art element and the first image
// slot of doc. Elements are looked up once; hold the renderer to get the
// overlap policy across calls.
func ForDocument(doc *page.Document, opts Options) (*Renderer, error) {
	src, ok := doc.Query(page.ArtClass).(Source)
	if !ok {
		return nil, ErrSourceNotFound
	}
	sink, ok := doc.Query(page.ImageClass).(Sink)
	if !ok {
		return nil, ErrTargetNotFound
	}
	return New(src, sink, opts)
}

// RenderDocument renders doc's artwork into its image slot once.
// A missing element fails before anything is decoded.
func RenderDocument(ctx context.Context, doc *page.Document, resolution int, opts Options) (*Job, error) {
	r, err := ForDocument(doc, opts)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, resolution)
}
