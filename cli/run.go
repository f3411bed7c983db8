package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"serveradmin/adminapi"
	"serveradmin/dataset"
	"serveradmin/query"
)

// Options are the parsed command line arguments.
type Options struct {
	Query   []string
	One     bool
	Attrs   []string
	Order   []string
	Resets  []string
	Updates []Update
	JSON    bool
}

// printed returns the attributes to print.
func (o Options) printed() []string {
	if len(o.Attrs) == 0 {
		return []string{dataset.HostnameAttribute}
	}
	return o.Attrs
}

// fetched returns the attributes to fetch: the printed ones and the ones
// that are changed.
func (o Options) fetched() []string {
	fetch := append([]string{}, o.printed()...)
	fetch = append(fetch, o.Resets...)
	for _, u := range o.Updates {
		fetch = append(fetch, u.AttributeID)
	}
	return fetch
}

func (o Options) mutates() bool {
	return len(o.Resets) > 0 || len(o.Updates) > 0
}

// ApplyResets resets the attributes of server. Multi attributes are
// cleared, others set to null.
func ApplyResets(server *dataset.Object, attributeIDs []string) error {
	for _, attributeID := range attributeIDs {
		value, _ := server.Get(attributeID)
		if multi, ok := value.(*dataset.MultiAttr); ok {
			multi.Clear()
			continue
		}
		if _, ok := value.(bool); ok {
			return dataset.NewError("Attribute of type boolean cannot be reset")
		}
		if err := server.Set(attributeID, nil); err != nil {
			return err
		}
	}
	return nil
}

// ApplyUpdates sets the attributes of server.
func ApplyUpdates(server *dataset.Object, updates []Update) error {
	for _, u := range updates {
		if err := server.Set(u.AttributeID, u.Value); err != nil {
			return err
		}
	}
	return nil
}

func apply(server *dataset.Object, opts Options) error {
	if err := ApplyResets(server, opts.Resets); err != nil {
		return err
	}
	return ApplyUpdates(server, opts.Updates)
}

// Run queries the servers, applies the changes and prints the result.
// Tab separated lines are printed before the changes are committed, JSON
// after.
func Run(ctx context.Context, out io.Writer, client *adminapi.Client, opts Options) error {
	filters, err := query.Parse(strings.Join(opts.Query, " "))
	if err != nil {
		return err
	}

	q := client.NewQuery(filters, opts.fetched(), opts.Order)
	servers, err := q.Results(ctx)
	if err != nil {
		return err
	}
	if opts.One && len(servers) != 1 {
		return fmt.Errorf("Expecting exactly one server, found %d servers", len(servers))
	}

	attributeIDs := opts.printed()
	if opts.JSON {
		records := make([]Record, 0, len(servers))
		for _, server := range servers {
			if err := apply(server, opts); err != nil {
				return err
			}
			records = append(records, FormatServerJSON(server, attributeIDs))
		}
		if opts.mutates() {
			if err := q.Commit(ctx); err != nil {
				return err
			}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	for _, server := range servers {
		if err := apply(server, opts); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, FormatServer(server, attributeIDs)); err != nil {
			return err
		}
	}
	if opts.mutates() {
		return q.Commit(ctx)
	}
	return nil
}
