package model

import (
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"serveradmin/dataset"
	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

// Attribute types.
const (
	TypeString   = "string"
	TypeBoolean  = "boolean"
	TypeNumber   = "number"
	TypeIP       = "ip"
	TypeDate     = "date"
	TypeHostname = "hostname"
)

const dateLayout = "2006-01-02"

var attributeIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

var attributeTypes = map[string]bool{
	TypeString:   true,
	TypeBoolean:  true,
	TypeNumber:   true,
	TypeIP:       true,
	TypeDate:     true,
	TypeHostname: true,
}

// Attribute describes a typed property servers can have.
type Attribute struct {
	AttributeID string `json:"attribute_id" db:"attribute_id"`
	Type        string `json:"type"`
	Multi       bool   `json:"multi"`
	Group       string `json:"group" db:"group_name"`
	Help        string `json:"help"`
}

// Intrinsic attributes are stored on the servers table and exist for every
// server.
var (
	ObjectIDAttribute = &Attribute{
		AttributeID: dataset.ObjectIDAttribute, Type: TypeNumber, Group: "base",
		Help: "Unique id of the object",
	}
	HostnameAttribute = &Attribute{
		AttributeID: dataset.HostnameAttribute, Type: TypeHostname, Group: "base",
		Help: "Unique name of the server",
	}
	ServertypeAttribute = &Attribute{
		AttributeID: dataset.ServertypeAttribute, Type: TypeString, Group: "base",
		Help: "Type of the server",
	}
)

// IntrinsicAttributes returns the attributes every server has.
func IntrinsicAttributes() []*Attribute {
	return []*Attribute{ObjectIDAttribute, HostnameAttribute, ServertypeAttribute}
}

// IsIntrinsic reports whether the attribute id names an intrinsic attribute.
func IsIntrinsic(attributeID string) bool {
	for _, a := range IntrinsicAttributes() {
		if a.AttributeID == attributeID {
			return true
		}
	}
	return false
}

// Validate validates the model.
func (a *Attribute) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if a.AttributeID == "" {
		errors.Add("attribute_id", "must not be blank")
	} else if !attributeIDPattern.MatchString(a.AttributeID) {
		errors.Add("attribute_id", "must be lowercase letters, digits and underscores")
	} else if IsIntrinsic(a.AttributeID) {
		errors.Add("attribute_id", "is reserved")
	}
	if !attributeTypes[a.Type] {
		errors.Add("type", "must be one of string, boolean, number, ip, date, hostname")
	}
	if a.Multi && a.Type == TypeBoolean {
		errors.Add("multi", "is not supported for boolean attributes")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (a *Attribute) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	if isUniqueError(err, "attributes", "attribute_id") ||
		strings.Contains(err.Error(), `"attributes_pkey"`) {
		errors.Add("attribute_id", "is already taken")
	}
	return errors
}

// Decode converts a stored value to the attribute's type.
func (a *Attribute) Decode(text string) (interface{}, error) {
	switch a.Type {
	case TypeBoolean:
		return strconv.ParseBool(text)
	case TypeNumber:
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
		return strconv.ParseFloat(text, 64)
	}
	return text, nil
}

// Coerce converts and checks a value given by a client. Nil is kept.
func (a *Attribute) Coerce(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	if _, ok := value.(*dataset.MultiAttr); ok {
		return nil, dataset.NewValidationError(
			"Attribute %s expects a single value", a.AttributeID)
	}
	text := dataset.Format(value)

	switch a.Type {
	case TypeBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		switch text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	case TypeNumber:
		if v, err := a.Decode(text); err == nil {
			return v, nil
		}
	case TypeIP:
		if ip := net.ParseIP(text); ip != nil {
			return ip.String(), nil
		}
	case TypeDate:
		if _, err := time.Parse(dateLayout, text); err == nil {
			return text, nil
		}
	case TypeHostname:
		if hostnamePattern.MatchString(text) {
			return text, nil
		}
	default:
		return text, nil
	}
	return nil, dataset.NewValidationError(
		"Invalid value %q for attribute %s of type %s", text, a.AttributeID, a.Type)
}

// Encode returns the stored form of a coerced value.
func (a *Attribute) Encode(value interface{}) string {
	return dataset.Format(value)
}

// AllAttributes returns all attributes ordered by id, without the intrinsic ones.
func AllAttributes(db *apsql.DB) ([]*Attribute, error) {
	attributes := []*Attribute{}
	err := db.Select(&attributes, db.SQL("attributes/all"))
	return attributes, err
}

// FindAttribute returns the attribute with the id specified.
func FindAttribute(db *apsql.DB, attributeID string) (*Attribute, error) {
	attribute := Attribute{}
	err := db.Get(&attribute, db.SQL("attributes/find"), attributeID)
	return &attribute, err
}

// DeleteAttribute deletes the attribute and all of its values.
func DeleteAttribute(tx *apsql.Tx, attributeID string) error {
	if err := tx.DeleteOne(tx.SQL("attributes/delete"), attributeID); err != nil {
		return err
	}
	return tx.Notify("attributes", 0, apsql.Delete, attributeID)
}

// Insert inserts the attribute into the database as a new row.
func (a *Attribute) Insert(tx *apsql.Tx) error {
	_, err := tx.Exec(tx.SQL("attributes/insert"),
		a.AttributeID, a.Type, a.Multi, a.Group, a.Help)
	if err != nil {
		return err
	}
	return tx.Notify("attributes", 0, apsql.Insert, a.AttributeID)
}

// Update updates the attribute in the database.
func (a *Attribute) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(tx.SQL("attributes/update"),
		a.Type, a.Multi, a.Group, a.Help, a.AttributeID)
	if err != nil {
		return err
	}
	return tx.Notify("attributes", 0, apsql.Update, a.AttributeID)
}
