package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

var dataTypes = []string{"stations", "lines", "cells", "markers", "geometries"}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "stations":
		data = webUI.Catalog.Stations()
		title = "Catalog - Stations"
	case "lines":
		data = webUI.Catalog.Lines()
		title = "Catalog - Lines"
	case "cells":
		data = webUI.Spatial.Cells()
		title = "Spatial - Voronoi Cells"
	case "markers":
		data = webUI.Spatial.Markers()
		title = "Spatial - Entrance Markers"
	case "geometries":
		data = webUI.Spatial.Geometries()
		title = "Spatial - Line Geometries"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stations, lines, cells, markers, geometries.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
