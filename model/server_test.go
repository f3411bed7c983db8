package model_test

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	modelt "serveradmin/model/testing"
	apsql "serveradmin/sql"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestServerValidate(c *gc.C) {
	c.Check((&model.Server{Hostname: "bad host"}).Validate(), jc.DeepEquals, aperrors.Errors{
		"hostname":   {"must be a valid hostname"},
		"servertype": {"must not be blank"},
	})
}

func (m *ModelSuite) TestServerValues(c *gc.C) {
	modelt.PrepareAttributes(c, m.db)
	web := modelt.PrepareServer(c, m.db, "web01", "vm", map[string][]string{
		"os":   {"bookworm"},
		"tags": {"web", "prod"},
	})
	modelt.PrepareServer(c, m.db, "db01", "hardware", nil)

	servers, err := model.AllServers(m.db)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(servers, gc.HasLen, 2)
	c.Check(servers[0].Hostname, gc.Equals, "db01")

	found, err := model.FindServerByHostname(m.db, "web01")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.DeepEquals, web)

	values, err := model.AttributeValuesForServer(m.db, web.ID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(values, jc.DeepEquals, []*model.AttributeValue{
		{ServerID: web.ID, AttributeID: "os", Value: "bookworm"},
		{ServerID: web.ID, AttributeID: "tags", Value: "web"},
		{ServerID: web.ID, AttributeID: "tags", Value: "prod"},
	})
}

func (m *ModelSuite) TestDeleteServerCascades(c *gc.C) {
	modelt.PrepareAttributes(c, m.db)
	web := modelt.PrepareServer(c, m.db, "web01", "vm", map[string][]string{
		"os": {"bookworm"},
	})
	c.Assert(m.db.DoInTransaction(func(tx *apsql.Tx) error {
		return model.DeleteServer(tx, web.ID)
	}), jc.ErrorIsNil)

	values, err := model.AllAttributeValues(m.db)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(values, gc.HasLen, 0)
}

func (m *ModelSuite) TestServerHostnameTaken(c *gc.C) {
	modelt.PrepareServer(c, m.db, "web01", "vm", nil)
	server := &model.Server{Hostname: "web01", Servertype: "vm"}
	err := m.db.DoInTransaction(server.Insert)
	c.Assert(err, gc.NotNil)
	c.Check(server.ValidateFromDatabaseError(err), jc.DeepEquals, aperrors.Errors{
		"hostname": {"is already taken"},
	})
}
