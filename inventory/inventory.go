// Package inventory evaluates queries and commits against the servers
// stored in the database.
package inventory

import (
	"sort"

	"serveradmin/dataset"
	aperrors "serveradmin/errors"
	"serveradmin/model"
	"serveradmin/query"
	apsql "serveradmin/sql"
)

// Query selects objects. Restrict limits the returned attributes, all of
// them when nil; object_id is always returned. OrderBy sorts the result.
type Query struct {
	Filters  query.Filters `json:"filters"`
	Restrict []string      `json:"restrict"`
	OrderBy  []string      `json:"order_by"`
}

// Inventory runs queries and commits.
type Inventory struct {
	db *apsql.DB
}

// New returns an inventory backed by db.
func New(db *apsql.DB) *Inventory {
	return &Inventory{db: db}
}

// Attributes returns all attributes by id, including the intrinsic ones.
func (inv *Inventory) Attributes() (map[string]*model.Attribute, error) {
	return loadAttributes(inv.db)
}

func loadAttributes(db *apsql.DB) (map[string]*model.Attribute, error) {
	attributes, err := model.AllAttributes(db)
	if err != nil {
		return nil, aperrors.NewWrapped("Could not load attributes", err)
	}
	byID := make(map[string]*model.Attribute, len(attributes)+3)
	for _, a := range model.IntrinsicAttributes() {
		byID[a.AttributeID] = a
	}
	for _, a := range attributes {
		byID[a.AttributeID] = a
	}
	return byID, nil
}

// Query returns the objects selected by q.
func (inv *Inventory) Query(q Query) ([]*dataset.Object, error) {
	attributes, err := inv.Attributes()
	if err != nil {
		return nil, err
	}
	if err := checkAttributes(attributes, q.Filters.AttributeIDs()); err != nil {
		return nil, err
	}
	if err := checkAttributes(attributes, q.Restrict); err != nil {
		return nil, err
	}
	if err := checkAttributes(attributes, q.OrderBy); err != nil {
		return nil, err
	}

	servers, err := model.AllServers(inv.db)
	if err != nil {
		return nil, aperrors.NewWrapped("Could not load servers", err)
	}
	values, err := model.AllAttributeValues(inv.db)
	if err != nil {
		return nil, aperrors.NewWrapped("Could not load attribute values", err)
	}
	valuesByServer := make(map[int64][]*model.AttributeValue)
	for _, v := range values {
		valuesByServer[v.ServerID] = append(valuesByServer[v.ServerID], v)
	}

	selected := []map[string]interface{}{}
	for _, server := range servers {
		object, err := buildObject(attributes, server, valuesByServer[server.ID])
		if err != nil {
			return nil, err
		}
		get := func(attributeID string) (interface{}, bool) {
			v, ok := object[attributeID]
			return v, ok
		}
		if q.Filters.Matches(get) {
			selected = append(selected, object)
		}
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(selected, func(i, j int) bool {
			for _, attributeID := range q.OrderBy {
				if c := dataset.Compare(selected[i][attributeID], selected[j][attributeID]); c != 0 {
					return c < 0
				}
			}
			return false
		})
	}

	objects := make([]*dataset.Object, 0, len(selected))
	for _, object := range selected {
		objects = append(objects, dataset.NewObject(restrict(object, q.Restrict)))
	}
	return objects, nil
}

// Get returns the only object selected by the filters.
func (inv *Inventory) Get(filters query.Filters, restrictTo []string) (*dataset.Object, error) {
	objects, err := inv.Query(Query{Filters: filters, Restrict: restrictTo})
	if err != nil {
		return nil, err
	}
	if len(objects) != 1 {
		return nil, dataset.NewError("Expecting exactly one object, found %d objects", len(objects))
	}
	return objects[0], nil
}

func checkAttributes(attributes map[string]*model.Attribute, ids []string) error {
	for _, id := range ids {
		if _, ok := attributes[id]; !ok {
			return dataset.NewError("Unknown attribute %s", id)
		}
	}
	return nil
}

// buildObject converts the stored rows of a server to typed values. Every
// attribute is present: unset single values are nil, booleans without a
// row are false and multi attributes are never nil.
func buildObject(
	attributes map[string]*model.Attribute,
	server *model.Server,
	values []*model.AttributeValue,
) (map[string]interface{}, error) {
	object := server.Intrinsic()
	for id, a := range attributes {
		if model.IsIntrinsic(id) {
			continue
		}
		switch {
		case a.Multi:
			object[id] = dataset.NewMultiAttr()
		case a.Type == model.TypeBoolean:
			object[id] = false
		default:
			object[id] = nil
		}
	}
	for _, v := range values {
		a, ok := attributes[v.AttributeID]
		if !ok {
			continue
		}
		decoded, err := a.Decode(v.Value)
		if err != nil {
			return nil, dataset.NewError("Stored value %q of attribute %s is invalid: %v",
				v.Value, v.AttributeID, err)
		}
		if a.Multi {
			object[v.AttributeID].(*dataset.MultiAttr).Add(decoded)
		} else {
			object[v.AttributeID] = decoded
		}
	}
	return object, nil
}

func restrict(object map[string]interface{}, attributeIDs []string) map[string]interface{} {
	if attributeIDs == nil {
		return object
	}
	restricted := map[string]interface{}{
		dataset.ObjectIDAttribute: object[dataset.ObjectIDAttribute],
	}
	for _, id := range attributeIDs {
		restricted[id] = object[id]
	}
	return restricted
}
