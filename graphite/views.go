package graphite

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"serveradmin/config"
	"serveradmin/dataset"
	aphttp "serveradmin/http"
	"serveradmin/inventory"
	"serveradmin/logreport"
	"serveradmin/query"

	"github.com/gorilla/handlers"
)

// Views serves the graph pages.
type Views struct {
	inventory   *inventory.Inventory
	collections *CollectionCache
	conf        config.GraphiteServer
	client      *http.Client
}

// NewViews returns the graph pages.
func NewViews(inv *inventory.Inventory, collections *CollectionCache, conf config.GraphiteServer) *Views {
	return &Views{
		inventory:   inv,
		collections: collections,
		conf:        conf,
		client:      &http.Client{Timeout: time.Duration(conf.Timeout) * time.Second},
	}
}

// Route adds the graph pages to the router.
func Route(router aphttp.Router, views *Views) {
	router.Handle("/graph_table", handlers.MethodHandler{
		"GET": aphttp.ErrorCatchingHandler(views.GraphTable),
	})
	router.Handle("/graph", handlers.MethodHandler{
		"GET": aphttp.ErrorCatchingHandler(views.Graph),
	})
}

type graphTableContext struct {
	Hostnames    []string
	Descriptions []Description
	GraphTable   []Row
	IsAjax       bool
	BaseTemplate string
	Link         string
	From         string
	Until        string
}

// GraphTable renders the graph table of the requested hostnames.
func (v *Views) GraphTable(w http.ResponseWriter, r *http.Request) aphttp.Error {
	params := r.URL.Query()

	var hostnames []string
	for _, h := range params["hostname"] {
		if h != "" {
			hostnames = append(hostnames, h)
		}
	}
	if len(hostnames) == 0 {
		return aphttp.BadRequest("No hostname provided")
	}

	servers, httpErr := v.servers(r, hostnames)
	if httpErr != nil {
		return httpErr
	}

	table := BuildTable(v.collections.Collections(), hostnames, servers,
		r.URL.RawQuery, params.Get("action") == "Submit")

	isAjax := r.Header.Get("X-Requested-With") == "XMLHttpRequest"
	context := graphTableContext{
		Hostnames:    hostnames,
		Descriptions: table.Descriptions,
		GraphTable:   table.Rows,
		IsAjax:       isAjax,
		BaseTemplate: "base",
		Link:         r.URL.RequestURI(),
		From:         valueOr(params.Get("from"), "-24h"),
		Until:        valueOr(params.Get("until"), "now"),
	}
	if isAjax {
		context.BaseTemplate = "empty"
	}

	var body bytes.Buffer
	if err := graphTableTemplates.ExecuteTemplate(&body, context.BaseTemplate, context); err != nil {
		logreport.Printf("%s [req %s] Error rendering graph table: %v", config.Graphite, aphttp.RequestID(r), err)
		return aphttp.DefaultServerError()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body.Bytes())
	return nil
}

// servers resolves the hostnames with a single inventory query and
// returns the servers in the order of hostnames.
func (v *Views) servers(r *http.Request, hostnames []string) ([]*dataset.Object, aphttp.Error) {
	anyHost := &query.Any{}
	for _, hostname := range hostnames {
		anyHost.Filters = append(anyHost.Filters, &query.Equals{Value: hostname})
	}
	objects, err := v.inventory.Query(inventory.Query{
		Filters: query.Filters{dataset.HostnameAttribute: anyHost},
	})
	if err != nil {
		var datasetErr *dataset.Error
		if errors.As(err, &datasetErr) {
			return nil, aphttp.NotFound("%s", datasetErr.Error())
		}
		logreport.Printf("%s [req %s] Error fetching servers: %v", config.Graphite, aphttp.RequestID(r), err)
		return nil, aphttp.DefaultServerError()
	}

	byHostname := make(map[string]*dataset.Object, len(objects))
	for _, o := range objects {
		if h, ok := o.Get(dataset.HostnameAttribute); ok {
			if hostname, ok := h.(string); ok {
				byHostname[hostname] = o
			}
		}
	}
	servers := make([]*dataset.Object, len(hostnames))
	for i, hostname := range hostnames {
		server, ok := byHostname[hostname]
		if !ok {
			return nil, aphttp.NotFound("No server named %s", hostname)
		}
		servers[i] = server
	}
	return servers, nil
}

// Graph fetches the graph from Graphite with the request's parameters.
func (v *Views) Graph(w http.ResponseWriter, r *http.Request) aphttp.Error {
	if v.conf.URL == "" {
		return aphttp.NewError(errors.New("Graphite is not configured"), http.StatusServiceUnavailable)
	}

	url := strings.TrimRight(v.conf.URL, "/") + "/render?" + r.URL.RawQuery
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return aphttp.BadRequest("Invalid graph parameters")
	}
	if v.conf.User != "" {
		req.SetBasicAuth(v.conf.User, v.conf.Password)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		logreport.Printf("%s [req %s] Error fetching graph: %v", config.Graphite, aphttp.RequestID(r), err)
		return badGateway()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logreport.Printf("%s [req %s] Graphite responded with %s", config.Graphite, aphttp.RequestID(r), resp.Status)
		return badGateway()
	}
	image, err := io.ReadAll(resp.Body)
	if err != nil {
		logreport.Printf("%s [req %s] Error reading graph: %v", config.Graphite, aphttp.RequestID(r), err)
		return badGateway()
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(image)
	return nil
}

func badGateway() aphttp.Error {
	return aphttp.NewError(errors.New("Graphite request failed"), http.StatusBadGateway)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
