package model

import (
	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

// Collection groups graph templates shown for servers whose attribute
// matches its rule.
type Collection struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Overview       bool   `json:"overview"`
	AttributeID    string `json:"attribute_id" db:"attribute_id"`
	AttributeValue string `json:"attribute_value" db:"attribute_value"`
	SortOrder      int64  `json:"sort_order" db:"sort_order"`
}

// Validate validates the model.
func (c *Collection) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if c.Name == "" {
		errors.Add("name", "must not be blank")
	}
	if c.AttributeID == "" {
		errors.Add("attribute_id", "must not be blank")
	}
	if c.AttributeValue == "" {
		errors.Add("attribute_value", "must not be blank")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (c *Collection) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	addTaken(errors, err, "graph_collections", "name", "name")
	return errors
}

// AllCollections returns all collections ordered by overview and sort order.
func AllCollections(db *apsql.DB) ([]*Collection, error) {
	collections := []*Collection{}
	err := db.Select(&collections, db.SQL("graph_collections/all"))
	return collections, err
}

// FindCollection returns the collection with the id specified.
func FindCollection(db *apsql.DB, id int64) (*Collection, error) {
	collection := Collection{}
	err := db.Get(&collection, db.SQL("graph_collections/find"), id)
	return &collection, err
}

// DeleteCollection deletes the collection with its templates and variations.
func DeleteCollection(tx *apsql.Tx, id int64) error {
	if err := tx.DeleteOne(tx.SQL("graph_collections/delete"), id); err != nil {
		return err
	}
	return tx.Notify("graph_collections", id, apsql.Delete)
}

// Insert inserts the collection into the database as a new row.
func (c *Collection) Insert(tx *apsql.Tx) (err error) {
	c.ID, err = tx.InsertOne(tx.SQL("graph_collections/insert"),
		c.Name, c.Overview, c.AttributeID, c.AttributeValue, c.SortOrder)
	if err != nil {
		return err
	}
	return tx.Notify("graph_collections", c.ID, apsql.Insert)
}

// Update updates the collection in the database.
func (c *Collection) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(tx.SQL("graph_collections/update"),
		c.Name, c.Overview, c.AttributeID, c.AttributeValue, c.SortOrder, c.ID)
	if err != nil {
		return err
	}
	return tx.Notify("graph_collections", c.ID, apsql.Update)
}
