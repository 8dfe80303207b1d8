// Package page models the document a render reads from and writes to:
// an artwork element carrying SVG markup and an image slot receiving the raster.
package page

import (
	"errors"
	"sync"
)

const (
	// ArtClass 标记源 SVG 元素。
	ArtClass = "art"
	// ImageClass 标记接收位图的 <img> 元素。
	ImageClass = "image"
)

// ErrNoMarkup is returned by an art element that has nothing to serialize.
var ErrNoMarkup = errors.New("page: art element has no markup")

// Element is anything placed in a Document.
type Element interface {
	Class() string
}

// MarkupSource produces SVG markup on demand.
type MarkupSource interface {
	Markup() (string, error)
}

// Document keeps elements in insertion order.
type Document struct {
	mu       sync.RWMutex
	elements []Element
}

// NewDocument creates a document holding elements in order.
func NewDocument(elements ...Element) *Document {
	return &Document{elements: append([]Element(nil), elements...)}
}

// Append adds an element at the end of the document.
func (d *Document) Append(el Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = append(d.elements, el)
}

// Query returns the first element carrying class, or nil.
func (d *Document) Query(class string) Element {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, el := range d.elements {
		if el != nil && el.Class() == class {
			return el
		}
	}
	return nil
}

// Art returns the first art element, or nil.
func (d *Document) Art() *ArtElement {
	el, _ := d.Query(ArtClass).(*ArtElement)
	return el
}

// Image returns the first image slot, or nil.
func (d *Document) Image() *ImageSlot {
	el, _ := d.Query(ImageClass).(*ImageSlot)
	return el
}

// ArtElement is the Source Artwork: an inline SVG element.
type ArtElement struct {
	mu     sync.RWMutex
	source MarkupSource
}

// NewArtElement wraps src; src may be replaced later with SetSource.
func NewArtElement(src MarkupSource) *ArtElement {
	return &ArtElement{source: src}
}

func (a *ArtElement) Class() string { return ArtClass }

// SetSource swaps the artwork, e.g. after regenerating the composition.
func (a *ArtElement) SetSource(src MarkupSource) {
	a.mu.Lock()
	a.source = src
	a.mu.Unlock()
}

// Markup serializes the current artwork.
func (a *ArtElement) Markup() (string, error) {
	a.mu.RLock()
	src := a.source
	a.mu.RUnlock()
	if src == nil {
		return "", ErrNoMarkup
	}
	return src.Markup()
}

// ImageSlot is the Target Image Slot. Every SetSource bumps Version and
// closes the channel previously returned by Changed.
type ImageSlot struct {
	mu      sync.Mutex
	src     string
	version uint64
	changed chan struct{}
}

// NewImageSlot creates an empty slot.
func NewImageSlot() *ImageSlot {
	return &ImageSlot{changed: make(chan struct{})}
}

func (s *ImageSlot) Class() string { return ImageClass }

// SetSource assigns a new image source.
func (s *ImageSlot) SetSource(dataURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = dataURL
	s.version++
	if s.changed != nil {
		close(s.changed)
	}
	s.changed = make(chan struct{})
}

// Src returns the current source, empty before the first assignment.
func (s *ImageSlot) Src() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src
}

// Version counts assignments so far.
func (s *ImageSlot) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Changed returns a channel closed on the next SetSource.
func (s *ImageSlot) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.changed == nil {
		s.changed = make(chan struct{})
	}
	return s.changed
}
