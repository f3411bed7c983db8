package model_test

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	modelt "serveradmin/model/testing"
	apsql "serveradmin/sql"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestCollectionsOrderedByOverviewAndSortOrder(c *gc.C) {
	modelt.PrepareCollection(c, m.db, &model.Collection{
		Name: "overview", Overview: true, AttributeID: "servertype", AttributeValue: "vm",
	}, nil, nil)
	modelt.PrepareCollection(c, m.db, &model.Collection{
		Name: "second", AttributeID: "servertype", AttributeValue: "vm", SortOrder: 2,
	}, nil, nil)
	modelt.PrepareCollection(c, m.db, &model.Collection{
		Name: "first", AttributeID: "os", AttributeValue: "bookworm", SortOrder: 1,
	}, nil, nil)

	collections, err := model.AllCollections(m.db)
	c.Assert(err, jc.ErrorIsNil)
	names := []string{}
	for _, collection := range collections {
		names = append(names, collection.Name)
	}
	c.Check(names, jc.DeepEquals, []string{"first", "second", "overview"})
}

func (m *ModelSuite) TestTemplatesAndVariations(c *gc.C) {
	collection := modelt.PrepareCollection(c, m.db,
		&model.Collection{Name: "vm", AttributeID: "servertype", AttributeValue: "vm"},
		[]*model.Template{
			{Name: "memory", Params: "target=servers.{hostname}.memory", SortOrder: 2},
			{Name: "cpu", Params: "target=servers.{hostname}.cpu", SortOrder: 1},
		},
		[]*model.Variation{
			{Name: "day", Params: "from=-24h"},
			{Name: "month", Params: "from=-30d", SummarizeInterval: "1h"},
		},
	)

	templates, err := model.AllTemplatesForCollectionID(m.db, collection.ID)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(templates, gc.HasLen, 2)
	c.Check(templates[0].Name, gc.Equals, "cpu")

	variations, err := model.AllVariationsForCollectionID(m.db, collection.ID)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(variations, gc.HasLen, 2)
	c.Check(variations[1].SummarizeInterval, gc.Equals, "1h")

	duplicate := &model.Template{CollectionID: collection.ID, Name: "cpu", Params: "target=x"}
	err = m.db.DoInTransaction(duplicate.Insert)
	c.Assert(err, gc.NotNil)
	c.Check(duplicate.ValidateFromDatabaseError(err), jc.DeepEquals, aperrors.Errors{
		"name": {"is already taken"},
	})

	c.Assert(m.db.DoInTransaction(func(tx *apsql.Tx) error {
		return model.DeleteCollection(tx, collection.ID)
	}), jc.ErrorIsNil)
	templates, err = model.AllTemplates(m.db)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(templates, gc.HasLen, 0)
}

func (m *ModelSuite) TestVariationValidate(c *gc.C) {
	v := &model.Variation{Name: "x", SummarizeInterval: "hourly"}
	c.Check(v.Validate(), jc.DeepEquals, aperrors.Errors{
		"summarize_interval": {"must look like 10min, 1h or 1d"},
	})
}
