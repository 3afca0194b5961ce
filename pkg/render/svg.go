package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yumyai/keggmap/pkg/imageutil"
	"github.com/yumyai/keggmap/pkg/model"
)

var defaultTemplate *template.Template

func init() {

	mapTmpl := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" class="kegg-map" data-map-id="{{.MapID}}" data-orgs="{{.Orgs}}" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<title>{{.Title}}</title>
<defs>{{range .Defs}}{{.}}{{end}}</defs>
<g class="shapes">
{{range .Shapes}}{{template "shape" .}}
{{end}}</g>
{{with .Background}}<image xlink:href="{{.}}" x="0" y="0" width="{{$.Width}}" height="{{$.Height}}" pointer-events="none"></image>
{{end}}</svg>
`

	shapeTmpl := `{{define "shape"}}` +
		`{{if eq .Kind "circle"}}{{template "circle" .}}` +
		`{{else if eq .Kind "rect"}}{{template "rect" .}}` +
		`{{else if eq .Kind "poly"}}{{template "poly" .}}` +
		`{{else if eq .Kind "line"}}{{template "line" .}}{{end}}` +
		`{{end}}`

	attrs := `class="shape {{.Class}}" data-annotations="{{.Annotations}}"`
	title := `<title>{{.Description}}</title>`

	circleTmpl := `{{define "circle"}}<circle cx="{{.Geometry.CX}}" cy="{{.Geometry.CY}}" r="{{.Geometry.R}}" fill="{{.Color}}" ` + attrs + `>` + title + `</circle>{{end}}`
	rectTmpl := `{{define "rect"}}<rect x="{{.Geometry.X}}" y="{{.Geometry.Y}}" width="{{.Geometry.Width}}" height="{{.Geometry.Height}}" rx="{{.Geometry.Radius}}" ry="{{.Geometry.Radius}}" fill="{{.Color}}" ` + attrs + `>` + title + `</rect>{{end}}`
	polyTmpl := `{{define "poly"}}<polygon points="{{.Geometry.Attr}}" fill="{{.Color}}" ` + attrs + `>` + title + `</polygon>{{end}}`
	lineTmpl := `{{define "line"}}<path d="{{.Geometry.D}}" fill="none" stroke="{{.Color}}" stroke-width="{{.Geometry.StrokeWidth}}" ` + attrs + `>` + title + `</path>{{end}}`

	defaultTemplate = template.New("map")
	defaultTemplate = template.Must(defaultTemplate.Parse(mapTmpl))
	defaultTemplate = template.Must(defaultTemplate.Parse(shapeTmpl))
	defaultTemplate = template.Must(defaultTemplate.Parse(circleTmpl))
	defaultTemplate = template.Must(defaultTemplate.Parse(rectTmpl))
	defaultTemplate = template.Must(defaultTemplate.Parse(polyTmpl))
	defaultTemplate = template.Must(defaultTemplate.Parse(lineTmpl))
}

// DefaultTemplate returns a copy of the built-in map template. Callers may
// redefine "circle", "rect", "poly", "line" or "shape" on it.
func DefaultTemplate() *template.Template {
	return template.Must(defaultTemplate.Clone())
}

type mapData struct {
	MapID      string
	Title      string
	Orgs       string
	Width      int
	Height     int
	Background template.URL
	Defs       []template.HTML
	Shapes     []shapeData
}

type shapeData struct {
	Kind        string
	Geometry    model.Geometry
	Class       string
	Color       string
	Description string
	Annotations string
}

type annotationData struct {
	Type        model.AnnoType `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

// Renderer turns maps into SVG documents.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer uses tmpl, or the default template when tmpl is nil.
func NewRenderer(tmpl *template.Template) *Renderer {
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	return &Renderer{tmpl: tmpl}
}

// WriteSVG writes m as SVG. bg may be nil; the canvas then spans the shapes.
func (r *Renderer) WriteSVG(w io.Writer, m *model.KeggMap, bg *imageutil.EncodedPNG, color ColorFunc) error {
	if color == nil {
		color = ColorByClass
	}

	data := mapData{
		MapID: m.MapID,
		Title: m.Title,
		Orgs:  strings.Join(m.Orgs, "+"),
	}

	for _, s := range m.Shapes.All() {
		sd, paint, err := newShapeData(s, color)
		if err != nil {
			return fmt.Errorf("rendering %s of map %s: %w", s.RawPosition, m.MapID, err)
		}
		if paint.Defs != "" {
			data.Defs = append(data.Defs, paint.Defs)
		}
		data.Shapes = append(data.Shapes, sd)

		if bg == nil {
			box := s.BoundingBox()
			data.Width = max(data.Width, box.X2)
			data.Height = max(data.Height, box.Y2)
		}
	}

	if bg != nil {
		data.Width, data.Height = bg.Width, bg.Height
		data.Background = template.URL(bg.DataURI())
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering map %s: %w", m.MapID, err)
	}
	return nil
}

func newShapeData(s *model.Shape, color ColorFunc) (shapeData, Paint, error) {
	annos := make([]annotationData, 0, len(s.Annotations))
	for _, a := range s.Annotations.Sorted() {
		e := a.Escaped()
		annos = append(annos, annotationData{Type: e.Type, Name: e.Name, Description: e.Description})
	}
	encoded, err := json.Marshal(annos)
	if err != nil {
		return shapeData{}, Paint{}, err
	}

	paint := color(s)
	return shapeData{
		Kind:        s.Kind().String(),
		Geometry:    s.Geometry,
		Class:       strings.Join(s.Classes(), " "),
		Color:       paint.Color,
		Description: s.Description,
		Annotations: string(encoded),
	}, paint, nil
}
