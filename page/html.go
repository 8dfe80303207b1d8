package page

import (
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.row { display: flex; gap: 2rem; align-items: flex-start; }
.row > * { max-width: 45vw; height: auto; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="row">
{{- if .Art}}
{{.Art}}
{{- end}}
{{- if .Image}}
<img class="image" alt="{{.Title}}" src="{{.Image}}">
{{- else}}
<img class="image" alt="{{.Title}}">
{{- end}}
</div>
{{- if .Resolutions}}
<nav>
{{- range .Resolutions}}
<a href="?resolution={{.}}">{{.}}</a>
{{- end}}
</nav>
{{- end}}
</body>
</html>
`))

type pageData struct {
	Title       string
	Art         template.HTML
	Image       template.URL
	Resolutions []int
}

// HTML writes the document as a standalone page; resolutions become links.
func (d *Document) HTML(w io.Writer, title string, resolutions ...int) error {
	data := pageData{Title: title, Resolutions: resolutions}
	if art := d.Art(); art != nil {
		markup, err := art.Markup()
		if err != nil {
			return fmt.Errorf("序列化 art 元素失败: %w", err)
		}
		// 标记由 markup 包生成，视为可信。
		data.Art = template.HTML(markup)
	}
	if img := d.Image(); img != nil {
		data.Image = template.URL(img.Src())
	}
	return pageTemplate.Execute(w, data)
}
