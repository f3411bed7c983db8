package model

import (
	"serveradmin/dataset"
	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

// Server is an inventory record. Attribute values beyond the intrinsic ones
// are stored as AttributeValue rows.
type Server struct {
	ID         int64  `json:"object_id"`
	Hostname   string `json:"hostname"`
	Servertype string `json:"servertype"`
}

// AttributeValue is one stored value of a server attribute.
type AttributeValue struct {
	ServerID    int64  `db:"server_id"`
	AttributeID string `db:"attribute_id"`
	Value       string `db:"value"`
}

// Validate validates the model.
func (s *Server) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if _, err := HostnameAttribute.Coerce(s.Hostname); s.Hostname == "" || err != nil {
		errors.Add("hostname", "must be a valid hostname")
	}
	if s.Servertype == "" {
		errors.Add("servertype", "must not be blank")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (s *Server) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	addTaken(errors, err, "servers", "hostname", "hostname")
	return errors
}

// Intrinsic returns the values of the intrinsic attributes.
func (s *Server) Intrinsic() map[string]interface{} {
	return map[string]interface{}{
		dataset.ObjectIDAttribute:   s.ID,
		dataset.HostnameAttribute:   s.Hostname,
		dataset.ServertypeAttribute: s.Servertype,
	}
}

// AllServers returns all servers ordered by hostname.
func AllServers(q apsql.Queryer) ([]*Server, error) {
	servers := []*Server{}
	err := q.Select(&servers, q.SQL("servers/all"))
	return servers, err
}

// FindServer returns the server with the id specified.
func FindServer(q apsql.Queryer, id int64) (*Server, error) {
	server := Server{}
	err := q.Get(&server, q.SQL("servers/find"), id)
	return &server, err
}

// FindServerByHostname returns the server with the hostname specified.
func FindServerByHostname(q apsql.Queryer, hostname string) (*Server, error) {
	server := Server{}
	err := q.Get(&server, q.SQL("servers/find_by_hostname"), hostname)
	return &server, err
}

// DeleteServer deletes the server and its attribute values.
func DeleteServer(tx *apsql.Tx, id int64) error {
	if err := tx.DeleteOne(tx.SQL("servers/delete"), id); err != nil {
		return err
	}
	return tx.Notify("servers", id, apsql.Delete)
}

// Insert inserts the server into the database as a new row.
func (s *Server) Insert(tx *apsql.Tx) (err error) {
	s.ID, err = tx.InsertOne(tx.SQL("servers/insert"), s.Hostname, s.Servertype)
	if err != nil {
		return err
	}
	return tx.Notify("servers", s.ID, apsql.Insert)
}

// Update updates the intrinsic attributes in the database.
func (s *Server) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(tx.SQL("servers/update"), s.Hostname, s.Servertype, s.ID)
	if err != nil {
		return err
	}
	return tx.Notify("servers", s.ID, apsql.Update)
}

// AllAttributeValues returns the stored values of all servers.
func AllAttributeValues(q apsql.Queryer) ([]*AttributeValue, error) {
	values := []*AttributeValue{}
	err := q.Select(&values, q.SQL("server_attributes/all"))
	return values, err
}

// AttributeValuesForServer returns the stored values of one server.
func AttributeValuesForServer(q apsql.Queryer, serverID int64) ([]*AttributeValue, error) {
	values := []*AttributeValue{}
	err := q.Select(&values, q.SQL("server_attributes/for_server"), serverID)
	return values, err
}

// Insert adds the value.
func (v *AttributeValue) Insert(tx *apsql.Tx) error {
	_, err := tx.InsertOne(tx.SQL("server_attributes/insert"),
		v.ServerID, v.AttributeID, v.Value)
	return err
}

// DeleteAttributeValues removes all values a server has for an attribute.
func DeleteAttributeValues(tx *apsql.Tx, serverID int64, attributeID string) error {
	_, err := tx.Exec(tx.SQL("server_attributes/delete_attribute"), serverID, attributeID)
	return err
}

// DeleteAttributeValue removes one value of a multi attribute.
func DeleteAttributeValue(tx *apsql.Tx, serverID int64, attributeID, value string) error {
	_, err := tx.Exec(tx.SQL("server_attributes/delete_value"), serverID, attributeID, value)
	return err
}
