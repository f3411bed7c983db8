package inventory

import (
	"serveradmin/dataset"
	"serveradmin/model"
	apsql "serveradmin/sql"
)

// Commit applies all changes in one transaction. Any failure, including a
// value that changed since the client read it, rolls back everything.
func (inv *Inventory) Commit(commit *dataset.Commit) error {
	attributes, err := inv.Attributes()
	if err != nil {
		return err
	}
	return inv.db.DoInTransaction(func(tx *apsql.Tx) error {
		for _, object := range commit.Created {
			if err := create(tx, attributes, object); err != nil {
				return err
			}
		}
		for _, changes := range commit.Changed {
			if err := change(tx, attributes, changes); err != nil {
				return err
			}
		}
		for _, id := range commit.Deleted {
			if err := model.DeleteServer(tx, id); err != nil {
				if err == apsql.ErrZeroRowsAffected {
					return dataset.NewError("Object %d does not exist", id)
				}
				return err
			}
		}
		return nil
	})
}

func create(tx *apsql.Tx, attributes map[string]*model.Attribute, object *dataset.Object) error {
	hostname, _ := object.Get(dataset.HostnameAttribute)
	servertype, _ := object.Get(dataset.ServertypeAttribute)
	server := &model.Server{
		Hostname:   dataset.Format(hostname),
		Servertype: dataset.Format(servertype),
	}
	if errs := server.Validate(); !errs.Empty() {
		return dataset.NewValidationError("Invalid new object: %v", errs)
	}
	if err := server.Insert(tx); err != nil {
		if errs := server.ValidateFromDatabaseError(err); !errs.Empty() {
			return dataset.NewValidationError("Hostname %s is already taken", server.Hostname)
		}
		return err
	}

	for _, id := range object.Keys() {
		if model.IsIntrinsic(id) {
			continue
		}
		attribute, ok := attributes[id]
		if !ok {
			return dataset.NewError("Unknown attribute %s", id)
		}
		value, _ := object.Get(id)
		values := []interface{}{value}
		if multi, ok := value.(*dataset.MultiAttr); ok {
			if !attribute.Multi {
				return dataset.NewValidationError("Attribute %s is not a multi attribute", id)
			}
			values = multi.Values()
		}
		for _, v := range values {
			if err := insertValue(tx, server.ID, attribute, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func change(tx *apsql.Tx, attributes map[string]*model.Attribute, changes dataset.ObjectChanges) error {
	server, err := model.FindServer(tx, changes.ObjectID)
	if err != nil {
		if apsql.IsNoResult(err) {
			return dataset.NewError("Object %d does not exist", changes.ObjectID)
		}
		return err
	}
	values, err := model.AttributeValuesForServer(tx, server.ID)
	if err != nil {
		return err
	}
	current, err := buildObject(attributes, server, values)
	if err != nil {
		return err
	}

	serverChanged := false
	for _, id := range changes.AttributeIDs() {
		attribute, ok := attributes[id]
		if !ok {
			return dataset.NewError("Unknown attribute %s", id)
		}
		if id == dataset.ObjectIDAttribute {
			return dataset.NewError("Attribute %s is read-only", id)
		}
		c := changes.Attributes[id]

		switch c.Action {
		case dataset.ActionUpdate:
			if attribute.Multi {
				return dataset.NewError("Attribute %s is a multi attribute", id)
			}
			if !dataset.Equal(current[id], c.Old) {
				return dataset.NewError("Attribute %s of object %d changed concurrently",
					id, server.ID)
			}
			value, err := coerce(attribute, c.New)
			if err != nil {
				return err
			}
			if model.IsIntrinsic(id) {
				if value == nil {
					return dataset.NewValidationError("Attribute %s cannot be null", id)
				}
				if id == dataset.HostnameAttribute {
					server.Hostname = dataset.Format(value)
				} else {
					server.Servertype = dataset.Format(value)
				}
				serverChanged = true
				continue
			}
			if err := model.DeleteAttributeValues(tx, server.ID, id); err != nil {
				return err
			}
			if err := insertValue(tx, server.ID, attribute, value); err != nil {
				return err
			}
		case dataset.ActionMulti:
			if !attribute.Multi {
				return dataset.NewError("Attribute %s is not a multi attribute", id)
			}
			multi := current[id].(*dataset.MultiAttr)
			for _, v := range c.Remove {
				value, err := coerce(attribute, v)
				if err != nil {
					return err
				}
				if err := model.DeleteAttributeValue(tx, server.ID, id, attribute.Encode(value)); err != nil {
					return err
				}
				multi.Remove(value)
			}
			for _, v := range c.Add {
				value, err := coerce(attribute, v)
				if err != nil {
					return err
				}
				if multi.Contains(value) {
					continue
				}
				if err := insertValue(tx, server.ID, attribute, value); err != nil {
					return err
				}
				multi.Add(value)
			}
		default:
			return dataset.NewError("Unknown action %q", c.Action)
		}
	}

	if serverChanged {
		if errs := server.Validate(); !errs.Empty() {
			return dataset.NewValidationError("Invalid object %d: %v", server.ID, errs)
		}
		if err := server.Update(tx); err != nil {
			if errs := server.ValidateFromDatabaseError(err); !errs.Empty() {
				return dataset.NewValidationError("Hostname %s is already taken", server.Hostname)
			}
			return err
		}
		return nil
	}
	return tx.Notify("servers", server.ID, apsql.Update)
}

func coerce(attribute *model.Attribute, value interface{}) (interface{}, error) {
	if value == nil && attribute.Type == model.TypeBoolean {
		return nil, dataset.NewValidationError(
			"Attribute %s of type boolean cannot be null", attribute.AttributeID)
	}
	return attribute.Coerce(value)
}

// insertValue stores a coerced value. Nil and false are stored as the
// absence of a row.
func insertValue(tx *apsql.Tx, serverID int64, attribute *model.Attribute, value interface{}) error {
	if value == nil {
		return nil
	}
	value, err := coerce(attribute, value)
	if err != nil {
		return err
	}
	if b, ok := value.(bool); ok && !b {
		return nil
	}
	row := &model.AttributeValue{
		ServerID:    serverID,
		AttributeID: attribute.AttributeID,
		Value:       attribute.Encode(value),
	}
	return row.Insert(tx)
}
