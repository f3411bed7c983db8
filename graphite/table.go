package graphite

import "serveradmin/dataset"

// Description names a graph shown in the table.
type Description struct {
	Name        string
	Description string
}

// Table is the graph table of one or more servers.
type Table struct {
	Hostnames    []string
	Descriptions []Description
	Rows         []Row
}

// BuildTable assembles the graph table of the servers, which are in the
// order of hostnames. With customParams every template is rendered once
// with them instead of once per variation.
func BuildTable(collections []*Collection, hostnames []string, servers []*dataset.Object, customParams string, custom bool) *Table {
	selected := SelectCollections(collections, servers)

	table := &Table{Hostnames: hostnames}
	for _, c := range selected {
		for _, t := range c.Templates {
			for range hostnames {
				table.Descriptions = append(table.Descriptions, Description{t.Name, t.Description})
			}
		}
	}

	tables := make([][]Row, len(servers))
	for i, server := range servers {
		for _, c := range selected {
			if custom {
				tables[i] = append(tables[i], c.GraphColumn(server, customParams)...)
			} else {
				tables[i] = append(tables[i], c.GraphTable(server)...)
			}
		}
	}

	if len(hostnames) <= 1 {
		if len(tables) == 1 {
			table.Rows = tables[0]
		}
		return table
	}

	for i, hostname := range hostnames {
		for j := range tables[i] {
			tables[i][j].Title += " on " + hostname
		}
	}
	table.Rows = interleave(tables)
	return table
}

// interleave merges the tables row by row, stopping at the shortest.
func interleave(tables [][]Row) []Row {
	shortest := len(tables[0])
	for _, t := range tables[1:] {
		if len(t) < shortest {
			shortest = len(t)
		}
	}
	rows := make([]Row, 0, shortest*len(tables))
	for j := 0; j < shortest; j++ {
		for _, t := range tables {
			rows = append(rows, t[j])
		}
	}
	return rows
}
