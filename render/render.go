// Package render turns forecasts into the dashboard page. It owns the whole
// presentation layer: static styling, the embedded logo and the force chart.
package render

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/xh3b4sd/tracer"
)

//go:embed page.html
var files embed.FS

// View is everything the dashboard page displays for one request.
type View struct {
	Tit string
	Log template.URL
	// Dat and Hou echo the inputs, so that the form keeps its state across
	// submissions.
	Dat string
	Hou int
	Err string
	Res *Result
}

// Result is the forecast card shown after a successful submission.
type Result struct {
	Dis string
	Cha *Chart
}

// Template parses the dashboard page, which is registered under the name
// page.html.
func Template() (*template.Template, error) {
	tem, err := template.New("").Funcs(Funcs()).ParseFS(files, "page.html")
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return tem, nil
}

// Funcs returns the helpers page.html relies on: the chart colors and
// two-decimal number formatting for SVG coordinates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"down": func() template.CSS { return template.CSS(Down) },
		"num":  func(f float64) string { return fmt.Sprintf("%.2f", f) },
		"up":   func() template.CSS { return template.CSS(Up) },
	}
}
