package server

import (
	"html/template"
	"net/http"

	"github.com/matzehuels/grap/pkg/buildinfo"
	"github.com/matzehuels/grap/pkg/chart"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>grap</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 3rem auto; color: #333; }
label { display: block; margin: .6rem 0 .2rem; font-size: .9rem; }
select, input[type=text] { width: 100%; padding: .3rem; }
button { margin-top: 1rem; margin-right: .5rem; padding: .4rem 1rem; }
footer { margin-top: 2rem; font-size: .8rem; color: #999; }
</style>
</head>
<body>
<h1>grap</h1>
<form method="post" enctype="multipart/form-data" action="/api/render?format=png" target="_blank">
<label for="file">CSV file</label>
<input type="file" id="file" name="file" accept=".csv,.tsv,.txt" required>
<label for="chartType">Chart type</label>
<select id="chartType" name="chartType">{{range .Types}}<option{{if eq . $.Defaults.Type}} selected{{end}}>{{.}}</option>{{end}}</select>
<label for="theme">Theme</label>
<select id="theme" name="theme">{{range .Themes}}<option{{if eq . $.Defaults.Theme}} selected{{end}}>{{.}}</option>{{end}}</select>
<label for="textSize">Text size</label>
<select id="textSize" name="textSize">{{range .TextSizes}}<option{{if eq . $.Defaults.TextSize}} selected{{end}}>{{.}}</option>{{end}}</select>
<label for="aspectRatio">Aspect ratio</label>
<select id="aspectRatio" name="aspectRatio">{{range .AspectRatios}}<option{{if eq . $.Defaults.AspectRatio}} selected{{end}}>{{.}}</option>{{end}}</select>
<label for="chartTitle">Title</label>
<input type="text" id="chartTitle" name="chartTitle" value="{{.Defaults.Title}}">
<label for="xAxisLabel">X axis label</label>
<input type="text" id="xAxisLabel" name="xAxisLabel" value="{{.Defaults.XAxisLabel}}">
<label for="yAxisLabel">Y axis label</label>
<input type="text" id="yAxisLabel" name="yAxisLabel" value="{{.Defaults.YAxisLabel}}">
<label for="seriesColor">Series color</label>
<input type="text" id="seriesColor" name="seriesColor" value="{{.Defaults.SeriesColor.Hex}}">
<button type="submit">Render</button>
<button type="submit" formaction="/api/export">Export PNG</button>
</form>
<footer>grap {{.Version}}</footer>
</body>
</html>
`))

type indexData struct {
	Defaults     chart.Options
	Types        []chart.Type
	Themes       []chart.Theme
	TextSizes    []chart.TextSize
	AspectRatios []chart.AspectRatio
	Version      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, indexData{
		Defaults:     s.defaults,
		Types:        chart.Types,
		Themes:       chart.Themes,
		TextSizes:    chart.TextSizes,
		AspectRatios: chart.AspectRatios,
		Version:      buildinfo.Version,
	})
	if err != nil {
		s.logger.Error("render index", "error", err)
	}
}
