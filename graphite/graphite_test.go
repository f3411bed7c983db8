package graphite

import (
	"net/url"
	"testing"

	"serveradmin/dataset"
	"serveradmin/model"

	"github.com/google/go-cmp/cmp"
)

func newServer(hostname, os string, tags ...interface{}) *dataset.Object {
	return dataset.NewObject(map[string]interface{}{
		"object_id": int64(1),
		"hostname":  hostname,
		"os":        os,
		"backup":    true,
		"num_cpu":   nil,
		"tags":      dataset.NewMultiAttr(tags...),
	})
}

func newCollections() []*Collection {
	day := &model.Variation{Name: "day", Params: "from=-24h"}
	week := &model.Variation{Name: "week", Params: "from=-7d", SummarizeInterval: "1h"}
	return []*Collection{
		{
			Collection: &model.Collection{ID: 1, Name: "system", AttributeID: "os", AttributeValue: "bookworm"},
			Templates: []*model.Template{
				{Name: "load", Description: "Load average", Params: "target=servers.{hostname}.load"},
				{Name: "cpu", Description: "CPU usage", Params: "target=servers.{hostname}.cpu"},
			},
			Variations: []*model.Variation{day, week},
		},
		{
			Collection: &model.Collection{ID: 2, Name: "web", AttributeID: "tags", AttributeValue: "web"},
			Templates: []*model.Template{
				{Name: "requests", Description: "Requests", Params: "target=web.{tags}.requests"},
			},
			Variations: []*model.Variation{day},
		},
		{
			Collection: &model.Collection{ID: 3, Name: "system overview", Overview: true, AttributeID: "os", AttributeValue: "bookworm"},
			Templates: []*model.Template{
				{Name: "overview", Description: "Overview", Params: "target=servers.*.load"},
			},
			Variations: []*model.Variation{day},
		},
	}
}

func names(collections []*Collection) []string {
	result := []string{}
	for _, c := range collections {
		result = append(result, c.Name)
	}
	return result
}

func TestMatches(t *testing.T) {
	collections := newCollections()
	web := newServer("web01", "bookworm", "web", "prod")
	db := newServer("db01", "bullseye")

	cases := []struct {
		collection *Collection
		server     *dataset.Object
		expected   bool
	}{
		{collections[0], web, true},
		{collections[0], db, false},
		{collections[1], web, true},
		{collections[1], db, false},
		{&Collection{Collection: &model.Collection{AttributeID: "backup", AttributeValue: "true"}}, web, true},
		{&Collection{Collection: &model.Collection{AttributeID: "num_cpu", AttributeValue: ""}}, web, false},
		{&Collection{Collection: &model.Collection{AttributeID: "game", AttributeValue: "x"}}, web, false},
	}
	for i, c := range cases {
		if got := c.collection.Matches(c.server); got != c.expected {
			t.Errorf("case %d: expected %v, got %v", i, c.expected, got)
		}
	}
}

func TestSelectCollections(t *testing.T) {
	collections := newCollections()
	web := newServer("web01", "bookworm", "web")
	other := newServer("web02", "bookworm")

	if diff := cmp.Diff([]string{"system", "web"}, names(SelectCollections(collections, []*dataset.Object{web}))); diff != "" {
		t.Errorf("unexpected collections (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"system"}, names(SelectCollections(collections, []*dataset.Object{web, other}))); diff != "" {
		t.Errorf("unexpected collections (-want +got):\n%s", diff)
	}

	// Without the non-overview collection the overview one is used.
	if diff := cmp.Diff([]string{"web", "system overview"}, names(SelectCollections(collections[1:], []*dataset.Object{web}))); diff != "" {
		t.Errorf("unexpected collections (-want +got):\n%s", diff)
	}
}

func TestGraphURL(t *testing.T) {
	server := newServer("web01.example.com", "bookworm", "b.x", "a.y")

	got := GraphURL("target=servers.{hostname}.load&width=600", server, "from=-24h", "")
	if got != "/graphite/graph?target=servers.web01_example_com.load&width=600&from=-24h" {
		t.Errorf("unexpected url %s", got)
	}

	got = GraphURL("target=web.{tags}.{missing}requests", server, "", "")
	if got != "/graphite/graph?target=web.a_y.requests" {
		t.Errorf("unexpected url %s", got)
	}

	got = GraphURL("target=servers.{hostname}.load&target=servers.{hostname}.cpu", server, "from=-7d", "1h")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	expected := url.Values{
		"target": {
			`summarize(servers.web01_example_com.load,"1h","avg")`,
			`summarize(servers.web01_example_com.cpu,"1h","avg")`,
		},
		"from": {"-7d"},
	}
	if diff := cmp.Diff(expected, u.Query()); diff != "" {
		t.Errorf("unexpected params (-want +got):\n%s", diff)
	}
}

func TestBuildTableSingleHost(t *testing.T) {
	collections := newCollections()
	web := newServer("web01", "bookworm", "web")

	table := BuildTable(collections, []string{"web01"}, []*dataset.Object{web}, "", false)

	expected := &Table{
		Hostnames: []string{"web01"},
		Descriptions: []Description{
			{"load", "Load average"},
			{"cpu", "CPU usage"},
			{"requests", "Requests"},
		},
		Rows: []Row{
			{Title: "load", Graphs: []Graph{
				{"day", "/graphite/graph?target=servers.web01.load&from=-24h"},
				{"week", GraphURL("target=servers.web01.load", web, "from=-7d", "1h")},
			}},
			{Title: "cpu", Graphs: []Graph{
				{"day", "/graphite/graph?target=servers.web01.cpu&from=-24h"},
				{"week", GraphURL("target=servers.web01.cpu", web, "from=-7d", "1h")},
			}},
			{Title: "requests", Graphs: []Graph{
				{"day", "/graphite/graph?target=web.web.requests&from=-24h"},
			}},
		},
	}
	if diff := cmp.Diff(expected, table); diff != "" {
		t.Errorf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestBuildTableMultipleHosts(t *testing.T) {
	collections := newCollections()
	web1 := newServer("web01", "bookworm", "web")
	web2 := newServer("web02", "bookworm")

	table := BuildTable(collections, []string{"web01", "web02"}, []*dataset.Object{web1, web2},
		"hostname=web01&hostname=web02&from=-2d&action=Submit", true)

	expected := &Table{
		Hostnames: []string{"web01", "web02"},
		Descriptions: []Description{
			{"load", "Load average"},
			{"load", "Load average"},
			{"cpu", "CPU usage"},
			{"cpu", "CPU usage"},
		},
		Rows: []Row{
			{Title: "load on web01", Graphs: []Graph{{"Custom", "/graphite/graph?target=servers.web01.load&hostname=web01&hostname=web02&from=-2d&action=Submit"}}},
			{Title: "load on web02", Graphs: []Graph{{"Custom", "/graphite/graph?target=servers.web02.load&hostname=web01&hostname=web02&from=-2d&action=Submit"}}},
			{Title: "cpu on web01", Graphs: []Graph{{"Custom", "/graphite/graph?target=servers.web01.cpu&hostname=web01&hostname=web02&from=-2d&action=Submit"}}},
			{Title: "cpu on web02", Graphs: []Graph{{"Custom", "/graphite/graph?target=servers.web02.cpu&hostname=web01&hostname=web02&from=-2d&action=Submit"}}},
		},
	}
	if diff := cmp.Diff(expected, table); diff != "" {
		t.Errorf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestBuildTableNoCollections(t *testing.T) {
	table := BuildTable(nil, []string{"db01"}, []*dataset.Object{newServer("db01", "bullseye")}, "", false)
	if len(table.Rows) != 0 || len(table.Descriptions) != 0 {
		t.Errorf("expected an empty table, got %+v", table)
	}
}
