package render

import (
	"html/template"
	"io"
)

var indexPageTemplate *template.Template

// MapEntry is one row of the index page.
type MapEntry struct {
	MapID string `json:"map_id"`
	Title string `json:"title"`
}

// init initializes the template of the map index page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>KEGG maps</title>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">KEGG maps ({{.Orgs}})</h1>
			<p class="app-description">{{len .Maps}} maps available</p>
		</header>
		{{template "mapList" .}}
	</body>
	</html>`

	mapListTmpl := `{{define "mapList"}}
	<ul class="map-list">
		{{range .Maps}}<li><a href="/map/{{.MapID}}">map{{.MapID}}</a> {{.Title}}</li>
		{{end}}
	</ul>{{end}}`

	indexPageTemplate = template.New("index")
	indexPageTemplate = template.Must(indexPageTemplate.Parse(mainTmpl))
	indexPageTemplate = template.Must(indexPageTemplate.Parse(mapListTmpl))
}

func RenderIndexPage(w io.Writer, orgs string, maps []MapEntry) error {
	data := struct {
		Orgs string
		Maps []MapEntry
	}{
		Orgs: orgs,
		Maps: maps,
	}
	return indexPageTemplate.Execute(w, data)
}
