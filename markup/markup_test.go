package markup

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/mondrian/art"
)

func sampleComposition() *art.Composition {
	return &art.Composition{
		Width:       100,
		Height:      60,
		Canvas:      art.White,
		Border:      art.Black,
		BorderWidth: 3,
		Cells: []art.Cell{
			{X: 0, Y: 0, Width: 50, Height: 60, Fill: art.Red},
			{X: 50, Y: 0, Width: 50, Height: 60, Fill: art.Blue},
		},
	}
}

func TestWriteProducesWellFormedSVG(t *testing.T) {
	out, err := Write(sampleComposition())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for _, want := range []string{`class="art"`, `viewBox="0 0 100 60"`, `fill="#dd0100"`, `fill="#225095"`, `stroke-width="3"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("markup missing %s:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "<rect"); got != 3 {
		t.Fatalf("expected background + 2 cells, got %d rects", got)
	}

	var root struct {
		XMLName xml.Name
		Rects   []struct {
			Fill string `xml:"fill,attr"`
		} `xml:"rect"`
	}
	if err := xml.Unmarshal([]byte(out), &root); err != nil {
		t.Fatalf("markup is not well-formed XML: %v", err)
	}
	if root.XMLName.Local != "svg" || len(root.Rects) != 3 {
		t.Fatalf("unexpected document: %+v", root)
	}
	if root.Rects[0].Fill != "#ffffff" {
		t.Fatalf("background should use the canvas color, got %s", root.Rects[0].Fill)
	}
}

// TestWriteOmitsProlog 标记会被内联进 HTML 的 <body>，不能带 XML 声明或注释。
func TestWriteOmitsProlog(t *testing.T) {
	out, err := Write(sampleComposition())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(out, "<svg") {
		t.Fatalf("markup should start with the root element: %.60q", out)
	}
	if strings.Contains(out, "<?xml") || strings.Contains(out, "<!--") {
		t.Fatalf("markup still carries a prolog:\n%s", out)
	}
}

func TestWriteRootCarriesViewBoxAndClass(t *testing.T) {
	out, err := Write(sampleComposition())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	root := out[:strings.Index(out, ">")+1]
	for _, want := range []string{`width="100"`, `height="60"`, `viewBox="0 0 100 60"`, `class="art"`} {
		if !strings.Contains(root, want) {
			t.Fatalf("root tag missing %s: %s", want, root)
		}
	}
}

func TestArtworkMarkup(t *testing.T) {
	a := &Artwork{Composition: sampleComposition()}
	first, err := a.Markup()
	if err != nil {
		t.Fatalf("markup failed: %v", err)
	}
	second, _ := a.Markup()
	if first != second {
		t.Fatalf("serialization should be deterministic")
	}

	var empty *Artwork
	if _, err := empty.Markup(); !errors.Is(err, ErrNoComposition) {
		t.Fatalf("expected ErrNoComposition, got %v", err)
	}
	if _, err := Write(&art.Composition{}); err == nil {
		t.Fatalf("expected error for empty canvas")
	}
}

func TestStatic(t *testing.T) {
	got, err := Static("<svg/>").Markup()
	if err != nil || got != "<svg/>" {
		t.Fatalf("unexpected static markup %q %v", got, err)
	}
}
