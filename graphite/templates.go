package graphite

import "html/template"

const baseTemplate = `{{define "base"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Graphs of {{range $i, $h := .Hostnames}}{{if $i}}, {{end}}{{$h}}{{end}}</title>
</head>
<body>
{{template "content" .}}
</body>
</html>
{{end}}`

const emptyTemplate = `{{define "empty"}}{{template "content" .}}{{end}}`

const graphTableTemplate = `{{define "content"}}
<form class="graph-range" method="get" action="{{.Link}}">
  {{range .Hostnames}}<input type="hidden" name="hostname" value="{{.}}">{{end}}
  <label>From <input type="text" name="from" value="{{.From}}"></label>
  <label>Until <input type="text" name="until" value="{{.Until}}"></label>
  <input type="submit" name="action" value="Submit">
</form>
<ul class="graph-descriptions">
{{range .Descriptions}}  <li><strong>{{.Name}}</strong> {{.Description}}</li>
{{end}}</ul>
<table class="graph-table">
{{range .GraphTable}}  <tr>
    <th>{{.Title}}</th>
    {{range .Graphs}}<td><img alt="{{.Name}}" title="{{.Name}}" src="{{.URL}}"></td>{{end}}
  </tr>
{{end}}</table>
{{end}}`

var graphTableTemplates = template.Must(template.Must(template.Must(
	template.New("graph_table").Parse(baseTemplate)).
	Parse(emptyTemplate)).
	Parse(graphTableTemplate))
