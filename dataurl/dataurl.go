// Package dataurl builds and parses RFC 2397 data URLs: the percent-encoded
// SVG form handed to decoders and the base64 PNG form handed to image slots.
package dataurl

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"strings"
)

const (
	SVGMediaType = "image/svg+xml"
	PNGMediaType = "image/png"
)

var (
	ErrNotDataURL = errors.New("dataurl: missing data: scheme")
	ErrMalformed  = errors.New("dataurl: malformed data URL")
)

// URL is a parsed data URL.
type URL struct {
	MediaType string
	Base64    bool
	Data      []byte
}

const upperhex = "0123456789ABCDEF"

// EscapeComponent percent-encodes s the way JavaScript's encodeURIComponent
// does: only A-Z a-z 0-9 and - _ . ! ~ * ' ( ) are left as is.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// SVG wraps markup in a percent-encoded image/svg+xml data URL.
func SVG(markup string) string {
	return "data:" + SVGMediaType + "," + EscapeComponent(markup)
}

// PNG encodes img and wraps it in a base64 image/png data URL.
func PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("dataurl: encode png: %w", err)
	}
	return Encode(PNGMediaType, buf.Bytes()), nil
}

// Encode wraps data in a base64 data URL of the given media type.
func Encode(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Parse decodes a data URL. Media type parameters other than base64 are dropped.
func Parse(s string) (*URL, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma", ErrMalformed)
	}

	u := &URL{MediaType: "text/plain"}
	params := strings.Split(header, ";")
	if params[0] != "" {
		u.MediaType = strings.ToLower(params[0])
	}
	for _, p := range params[1:] {
		if p == "base64" {
			u.Base64 = true
		}
	}

	if u.Base64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		u.Data = data
		return u, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	u.Data = []byte(text)
	return u, nil
}

// DecodeImage parses a base64 image data URL and decodes the image in it.
func DecodeImage(s string) (image.Image, error) {
	u, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(u.MediaType, "image/") || u.MediaType == SVGMediaType {
		return nil, fmt.Errorf("%w: %s is not a raster image", ErrMalformed, u.MediaType)
	}
	img, _, err := image.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return nil, fmt.Errorf("dataurl: decode %s: %w", u.MediaType, err)
	}
	return img, nil
}
