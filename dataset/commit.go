package dataset

import (
	"encoding/json"
	"sort"
)

// Commit actions.
const (
	ActionUpdate = "update"
	ActionMulti  = "multi"
)

// AttributeChange describes the change of one attribute of one object.
type AttributeChange struct {
	Action string

	// update
	Old interface{}
	New interface{}

	// multi
	Add    []interface{}
	Remove []interface{}
}

// MarshalJSON writes the wire form of the change.
func (c AttributeChange) MarshalJSON() ([]byte, error) {
	switch c.Action {
	case ActionMulti:
		return json.Marshal(struct {
			Action string        `json:"action"`
			Add    []interface{} `json:"add"`
			Remove []interface{} `json:"remove"`
		}{c.Action, nonNil(c.Add), nonNil(c.Remove)})
	default:
		return json.Marshal(struct {
			Action string      `json:"action"`
			Old    interface{} `json:"old"`
			New    interface{} `json:"new"`
		}{ActionUpdate, c.Old, c.New})
	}
}

// UnmarshalJSON reads the wire form of the change.
func (c *AttributeChange) UnmarshalJSON(data []byte) error {
	raw, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return NewError("Expected a change object")
	}
	action, _ := fields["action"].(string)
	change := AttributeChange{Action: action}
	switch action {
	case ActionUpdate:
		if change.Old, err = Normalize(fields["old"]); err != nil {
			return err
		}
		if change.New, err = Normalize(fields["new"]); err != nil {
			return err
		}
	case ActionMulti:
		if change.Add, err = normalizeList(fields["add"]); err != nil {
			return err
		}
		if change.Remove, err = normalizeList(fields["remove"]); err != nil {
			return err
		}
	default:
		return NewError("Unknown action %q", action)
	}
	*c = change
	return nil
}

// ObjectChanges holds the changes of one object. On the wire it is a flat
// object with the "object_id" key next to one key per changed attribute.
type ObjectChanges struct {
	ObjectID   int64
	Attributes map[string]AttributeChange
}

// MarshalJSON writes the flat wire form.
func (o ObjectChanges) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{}, len(o.Attributes)+1)
	for k, v := range o.Attributes {
		fields[k] = v
	}
	fields[ObjectIDAttribute] = o.ObjectID
	return json.Marshal(fields)
}

// UnmarshalJSON reads the flat wire form.
func (o *ObjectChanges) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	idData, ok := fields[ObjectIDAttribute]
	if !ok {
		return NewError("Changes without %s", ObjectIDAttribute)
	}
	changes := ObjectChanges{Attributes: make(map[string]AttributeChange)}
	if err := json.Unmarshal(idData, &changes.ObjectID); err != nil {
		return NewError("Invalid %s: %v", ObjectIDAttribute, err)
	}
	delete(fields, ObjectIDAttribute)
	for k, v := range fields {
		var change AttributeChange
		if err := json.Unmarshal(v, &change); err != nil {
			return err
		}
		changes.Attributes[k] = change
	}
	*o = changes
	return nil
}

// AttributeIDs returns the changed attribute ids, sorted.
func (o ObjectChanges) AttributeIDs() []string {
	ids := make([]string, 0, len(o.Attributes))
	for k := range o.Attributes {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// Commit is the body sent to persist changes. Created objects carry their
// attributes without object_id; Deleted lists object ids.
type Commit struct {
	Created []*Object       `json:"created,omitempty"`
	Changed []ObjectChanges `json:"changed"`
	Deleted []int64         `json:"deleted,omitempty"`
}

// Empty reports whether there is nothing to commit.
func (c *Commit) Empty() bool {
	return len(c.Created) == 0 && len(c.Changed) == 0 && len(c.Deleted) == 0
}

// BuildCommit collects the changes of all dirty objects.
func BuildCommit(objects []*Object) *Commit {
	commit := &Commit{Changed: []ObjectChanges{}}
	for _, o := range objects {
		if changes := o.Changes(); len(changes) > 0 {
			commit.Changed = append(commit.Changed, ObjectChanges{
				ObjectID:   o.ObjectID(),
				Attributes: changes,
			})
		}
	}
	return commit
}

func normalizeList(value interface{}) ([]interface{}, error) {
	if value == nil {
		return []interface{}{}, nil
	}
	list, ok := value.([]interface{})
	if !ok {
		return nil, NewError("Expected a list, got %v", value)
	}
	normalized := make([]interface{}, 0, len(list))
	for _, item := range list {
		n, err := Normalize(item)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, n)
	}
	return normalized, nil
}

func nonNil(values []interface{}) []interface{} {
	if values == nil {
		return []interface{}{}
	}
	return values
}
