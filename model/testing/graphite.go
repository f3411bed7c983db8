package testing

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	apsql "serveradmin/sql"

	gc "gopkg.in/check.v1"
)

// PrepareCollection adds a collection with its templates and variations.
func PrepareCollection(
	c *gc.C,
	db *apsql.DB,
	collection *model.Collection,
	templates []*model.Template,
	variations []*model.Variation,
) *model.Collection {
	c.Assert(collection.Validate(), gc.DeepEquals, make(aperrors.Errors))
	inTx(c, db, func(tx *apsql.Tx) error {
		if err := collection.Insert(tx); err != nil {
			return err
		}
		for _, t := range templates {
			t.CollectionID = collection.ID
			c.Assert(t.Validate(), gc.DeepEquals, make(aperrors.Errors))
			if err := t.Insert(tx); err != nil {
				return err
			}
		}
		for _, v := range variations {
			v.CollectionID = collection.ID
			c.Assert(v.Validate(), gc.DeepEquals, make(aperrors.Errors))
			if err := v.Insert(tx); err != nil {
				return err
			}
		}
		return nil
	})
	return collection
}
