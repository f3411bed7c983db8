package model

import (
	"net/url"

	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

// Template is one graph of a collection. Params is a query string for the
// renderer in which `{attribute}` is replaced by the server's value.
type Template struct {
	ID           int64  `json:"id"`
	CollectionID int64  `json:"collection_id" db:"collection_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Params       string `json:"params"`
	SortOrder    int64  `json:"sort_order" db:"sort_order"`
}

// Validate validates the model.
func (t *Template) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if t.Name == "" {
		errors.Add("name", "must not be blank")
	}
	if t.Params == "" {
		errors.Add("params", "must not be blank")
	} else if _, err := url.ParseQuery(t.Params); err != nil {
		errors.Add("params", "must be a valid query string")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (t *Template) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	addTaken(errors, err, "graph_templates", "name", "collection_id", "name")
	return errors
}

// AllTemplates returns the templates of all collections.
func AllTemplates(db *apsql.DB) ([]*Template, error) {
	templates := []*Template{}
	err := db.Select(&templates, db.SQL("graph_templates/all"))
	return templates, err
}

// AllTemplatesForCollectionID returns the collection's templates in sort order.
func AllTemplatesForCollectionID(db *apsql.DB, collectionID int64) ([]*Template, error) {
	templates := []*Template{}
	err := db.Select(&templates, db.SQL("graph_templates/all_for_collection"), collectionID)
	return templates, err
}

// FindTemplateForCollectionID returns the template with the id specified.
func FindTemplateForCollectionID(db *apsql.DB, id, collectionID int64) (*Template, error) {
	template := Template{}
	err := db.Get(&template, db.SQL("graph_templates/find"), id, collectionID)
	return &template, err
}

// DeleteTemplateForCollectionID deletes the template with the id specified.
func DeleteTemplateForCollectionID(tx *apsql.Tx, id, collectionID int64) error {
	if err := tx.DeleteOne(tx.SQL("graph_templates/delete"), id, collectionID); err != nil {
		return err
	}
	return tx.Notify("graph_templates", id, apsql.Delete)
}

// Insert inserts the template into the database as a new row.
func (t *Template) Insert(tx *apsql.Tx) (err error) {
	t.ID, err = tx.InsertOne(tx.SQL("graph_templates/insert"),
		t.CollectionID, t.Name, t.Description, t.Params, t.SortOrder)
	if err != nil {
		return err
	}
	return tx.Notify("graph_templates", t.ID, apsql.Insert)
}

// Update updates the template in the database.
func (t *Template) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(tx.SQL("graph_templates/update"),
		t.Name, t.Description, t.Params, t.SortOrder, t.ID, t.CollectionID)
	if err != nil {
		return err
	}
	return tx.Notify("graph_templates", t.ID, apsql.Update)
}
