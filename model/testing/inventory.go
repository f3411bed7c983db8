package testing

import (
	aperrors "serveradmin/errors"
	"serveradmin/model"
	apsql "serveradmin/sql"

	gc "gopkg.in/check.v1"
)

// PrepareAttributes adds the attribute fixtures: os (string), backup
// (boolean), num_cpu (number), primary_ip (ip), tags (multi string),
// game (string) and environment (string).
func PrepareAttributes(c *gc.C, db *apsql.DB) {
	inTx(c, db, func(tx *apsql.Tx) error {
		for _, a := range attributes {
			attribute := a
			c.Assert(attribute.Validate(), gc.DeepEquals, make(aperrors.Errors))
			if err := attribute.Insert(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

var attributes = []model.Attribute{
	{AttributeID: "os", Type: model.TypeString},
	{AttributeID: "backup", Type: model.TypeBoolean},
	{AttributeID: "num_cpu", Type: model.TypeNumber},
	{AttributeID: "primary_ip", Type: model.TypeIP},
	{AttributeID: "tags", Type: model.TypeString, Multi: true},
	{AttributeID: "game", Type: model.TypeString},
	{AttributeID: "environment", Type: model.TypeString},
}

// PrepareServer adds a server with the given stored attribute values. Multi
// attributes take one row per value.
func PrepareServer(
	c *gc.C,
	db *apsql.DB,
	hostname, servertype string,
	values map[string][]string,
) *model.Server {
	server := &model.Server{Hostname: hostname, Servertype: servertype}
	c.Assert(server.Validate(), gc.DeepEquals, make(aperrors.Errors))
	inTx(c, db, func(tx *apsql.Tx) error {
		if err := server.Insert(tx); err != nil {
			return err
		}
		for attributeID, vs := range values {
			for _, v := range vs {
				value := &model.AttributeValue{
					ServerID:    server.ID,
					AttributeID: attributeID,
					Value:       v,
				}
				if err := value.Insert(tx); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return server
}
