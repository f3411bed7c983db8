package adminapi

import (
	"context"
	"encoding/json"
	"fmt"

	"serveradmin/dataset"
	"serveradmin/query"
)

// Query is a query against the server. The result is fetched on first use
// and kept, so changes made to the objects can be committed.
type Query struct {
	client *Client

	Filters  query.Filters
	Restrict []string
	OrderBy  []string

	results []*dataset.Object
	fetched bool
}

// NewQuery returns an unfetched query. A nil restrict fetches all
// attributes.
func (c *Client) NewQuery(filters query.Filters, restrict, orderBy []string) *Query {
	if filters == nil {
		filters = query.Filters{}
	}
	return &Query{client: c, Filters: filters, Restrict: restrict, OrderBy: orderBy}
}

// Results returns the matching objects, fetching them if necessary.
func (q *Query) Results(ctx context.Context) ([]*dataset.Object, error) {
	if q.fetched {
		return q.results, nil
	}
	raw, err := q.client.call(ctx, "/dataset/query", struct {
		Filters  query.Filters `json:"filters"`
		Restrict []string      `json:"restrict"`
		OrderBy  []string      `json:"order_by"`
	}{q.Filters, q.Restrict, q.OrderBy})
	if err != nil {
		return nil, err
	}

	var results []*dataset.Object
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &results); err != nil {
			return nil, fmt.Errorf("Unable to decode query result. Err: %v", err)
		}
	}
	q.results = results
	q.fetched = true
	return q.results, nil
}

// Len returns the number of matching objects.
func (q *Query) Len(ctx context.Context) (int, error) {
	results, err := q.Results(ctx)
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// Get returns the only matching object.
func (q *Query) Get(ctx context.Context) (*dataset.Object, error) {
	results, err := q.Results(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, dataset.NewError("Expecting exactly one object, found %d objects", len(results))
	}
	return results[0], nil
}

// Commit sends the changes made to the fetched objects. Nothing is sent
// when nothing changed.
func (q *Query) Commit(ctx context.Context) error {
	if !q.fetched {
		return nil
	}
	commit := dataset.BuildCommit(q.results)
	if commit.Empty() {
		return nil
	}
	if _, err := q.client.call(ctx, "/dataset/commit", commit); err != nil {
		return err
	}
	for _, o := range q.results {
		o.MarkClean()
	}
	return nil
}
