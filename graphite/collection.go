// Package graphite shows graphs of servers rendered by Graphite.
package graphite

import (
	"net/url"
	"regexp"
	"strings"

	"serveradmin/dataset"
	"serveradmin/model"
	apsql "serveradmin/sql"
)

// GraphPath is where the render proxy is served.
const GraphPath = "/graphite/graph"

var placeholderPattern = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Collection is a collection with its templates and variations in sort
// order.
type Collection struct {
	*model.Collection
	Templates  []*model.Template
	Variations []*model.Variation
}

// Graph is one rendered graph of a row.
type Graph struct {
	Name string
	URL  string
}

// Row is a titled row of graphs.
type Row struct {
	Title  string
	Graphs []Graph
}

// LoadCollections loads all collections ordered by overview and sort order.
func LoadCollections(db *apsql.DB) ([]*Collection, error) {
	collections, err := model.AllCollections(db)
	if err != nil {
		return nil, err
	}
	templates, err := model.AllTemplates(db)
	if err != nil {
		return nil, err
	}
	variations, err := model.AllVariations(db)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*Collection, len(collections))
	result := make([]*Collection, 0, len(collections))
	for _, c := range collections {
		collection := &Collection{Collection: c}
		byID[c.ID] = collection
		result = append(result, collection)
	}
	for _, t := range templates {
		if c, ok := byID[t.CollectionID]; ok {
			c.Templates = append(c.Templates, t)
		}
	}
	for _, v := range variations {
		if c, ok := byID[v.CollectionID]; ok {
			c.Variations = append(c.Variations, v)
		}
	}
	return result, nil
}

// Matches reports whether the server has the collection's attribute value.
// A multi attribute matches if any of its values does.
func (c *Collection) Matches(server *dataset.Object) bool {
	value, ok := server.Get(c.AttributeID)
	if !ok || value == nil {
		return false
	}
	if multi, ok := value.(*dataset.MultiAttr); ok {
		for _, s := range multi.Strings() {
			if s == c.AttributeValue {
				return true
			}
		}
		return false
	}
	return dataset.Format(value) == c.AttributeValue
}

type rule struct {
	attributeID    string
	attributeValue string
}

// SelectCollections returns the collections matching all servers. Of
// collections with the same rule only the first is used, so non-overview
// collections win over overview ones.
func SelectCollections(collections []*Collection, servers []*dataset.Object) []*Collection {
	seen := make(map[rule]bool)
	var selected []*Collection
	for _, c := range collections {
		r := rule{c.AttributeID, c.AttributeValue}
		if seen[r] {
			continue
		}
		matches := true
		for _, server := range servers {
			if !c.Matches(server) {
				matches = false
				break
			}
		}
		if matches {
			seen[r] = true
			selected = append(selected, c)
		}
	}
	return selected
}

// GraphTable returns one row per template with a graph per variation.
func (c *Collection) GraphTable(server *dataset.Object) []Row {
	rows := make([]Row, 0, len(c.Templates))
	for _, t := range c.Templates {
		row := Row{Title: t.Name, Graphs: make([]Graph, 0, len(c.Variations))}
		for _, v := range c.Variations {
			row.Graphs = append(row.Graphs, Graph{
				Name: v.Name,
				URL:  GraphURL(t.Params, server, v.Params, v.SummarizeInterval),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// GraphColumn returns one row per template with a single graph using the
// custom parameters.
func (c *Collection) GraphColumn(server *dataset.Object, customParams string) []Row {
	rows := make([]Row, 0, len(c.Templates))
	for _, t := range c.Templates {
		rows = append(rows, Row{
			Title:  t.Name,
			Graphs: []Graph{{Name: "Custom", URL: GraphURL(t.Params, server, customParams, "")}},
		})
	}
	return rows
}

// GraphURL returns the URL of the render proxy for the template params
// filled with the server's attributes, followed by extra params. With a
// summarize interval every target is summarized.
func GraphURL(params string, server *dataset.Object, extra, summarizeInterval string) string {
	filled := placeholderPattern.ReplaceAllStringFunc(params, func(placeholder string) string {
		attributeID := placeholder[1 : len(placeholder)-1]
		return url.QueryEscape(formatParam(server, attributeID))
	})
	if extra != "" {
		filled += "&" + extra
	}
	if summarizeInterval != "" {
		filled = summarize(filled, summarizeInterval)
	}
	return GraphPath + "?" + filled
}

// formatParam returns the value used for the attribute in metric names.
func formatParam(server *dataset.Object, attributeID string) string {
	value, _ := server.Get(attributeID)
	if multi, ok := value.(*dataset.MultiAttr); ok {
		values := multi.Strings()
		if len(values) == 0 {
			return ""
		}
		return strings.Replace(values[0], ".", "_", -1)
	}
	return strings.Replace(dataset.Format(value), ".", "_", -1)
}

func summarize(params, interval string) string {
	values, err := url.ParseQuery(params)
	if err != nil {
		return params
	}
	targets := values["target"]
	for i, target := range targets {
		targets[i] = `summarize(` + target + `,"` + interval + `","avg")`
	}
	return values.Encode()
}
