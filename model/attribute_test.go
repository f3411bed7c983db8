package model_test

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	modelt "serveradmin/model/testing"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestAttributeValidate(c *gc.C) {
	c.Check((&model.Attribute{AttributeID: "Bad-Id", Type: "blob"}).Validate(), jc.DeepEquals,
		aperrors.Errors{
			"attribute_id": {"must be lowercase letters, digits and underscores"},
			"type":         {"must be one of string, boolean, number, ip, date, hostname"},
		})
	c.Check((&model.Attribute{AttributeID: "hostname", Type: "string"}).Validate(), jc.DeepEquals,
		aperrors.Errors{"attribute_id": {"is reserved"}})
	c.Check((&model.Attribute{AttributeID: "flag", Type: "boolean", Multi: true}).Validate(), jc.DeepEquals,
		aperrors.Errors{"multi": {"is not supported for boolean attributes"}})
}

func (m *ModelSuite) TestAttributeCoerce(c *gc.C) {
	cases := []struct {
		typ   string
		in    interface{}
		out   interface{}
		valid bool
	}{
		{model.TypeString, int64(5), "5", true},
		{model.TypeNumber, "5", int64(5), true},
		{model.TypeNumber, "2.5", 2.5, true},
		{model.TypeNumber, "five", nil, false},
		{model.TypeBoolean, "true", true, true},
		{model.TypeBoolean, false, false, true},
		{model.TypeBoolean, "yes", nil, false},
		{model.TypeIP, "10.0.0.1", "10.0.0.1", true},
		{model.TypeIP, "10.0.0.300", nil, false},
		{model.TypeDate, "2019-03-01", "2019-03-01", true},
		{model.TypeDate, "01.03.2019", nil, false},
		{model.TypeHostname, "web01.example.com", "web01.example.com", true},
		{model.TypeHostname, "web 01", nil, false},
		{model.TypeNumber, nil, nil, true},
	}
	for _, t := range cases {
		a := &model.Attribute{AttributeID: "a", Type: t.typ}
		out, err := a.Coerce(t.in)
		if t.valid {
			c.Check(err, jc.ErrorIsNil, gc.Commentf("%s %v", t.typ, t.in))
			c.Check(out, gc.Equals, t.out, gc.Commentf("%s %v", t.typ, t.in))
		} else {
			c.Check(err, gc.NotNil, gc.Commentf("%s %v", t.typ, t.in))
		}
	}
}

func (m *ModelSuite) TestAttributeDecode(c *gc.C) {
	number := &model.Attribute{AttributeID: "n", Type: model.TypeNumber}
	v, err := number.Decode("12")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(v, gc.Equals, int64(12))

	boolean := &model.Attribute{AttributeID: "b", Type: model.TypeBoolean}
	v, err = boolean.Decode("false")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(v, gc.Equals, false)
}

func (m *ModelSuite) TestAttributeCRUD(c *gc.C) {
	modelt.PrepareAttributes(c, m.db)

	attributes, err := model.AllAttributes(m.db)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(attributes, gc.HasLen, 7)

	tags, err := model.FindAttribute(m.db, "tags")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(tags.Multi, jc.IsTrue)

	duplicate := &model.Attribute{AttributeID: "os", Type: model.TypeString}
	err = m.db.DoInTransaction(duplicate.Insert)
	c.Assert(err, gc.NotNil)
	c.Check(duplicate.ValidateFromDatabaseError(err), jc.DeepEquals, aperrors.Errors{
		"attribute_id": {"is already taken"},
	})
}
