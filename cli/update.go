package cli

import (
	"errors"
	"strings"
)

// Update is an attribute assignment given on the command line.
type Update struct {
	AttributeID string
	Value       string
}

// ParseUpdate parses an "attribute=value" argument.
func ParseUpdate(arg string) (Update, error) {
	parts := strings.Split(arg, "=")
	if len(parts) != 2 {
		return Update{}, errors.New("You need to pass an attribute=value")
	}
	return Update{AttributeID: parts[0], Value: parts[1]}, nil
}

// updatesValue collects repeated --update flags.
type updatesValue struct {
	updates *[]Update
}

func (v *updatesValue) String() string {
	if v.updates == nil {
		return "[]"
	}
	args := make([]string, len(*v.updates))
	for i, u := range *v.updates {
		args[i] = u.AttributeID + "=" + u.Value
	}
	return "[" + strings.Join(args, ",") + "]"
}

func (v *updatesValue) Set(arg string) error {
	u, err := ParseUpdate(arg)
	if err != nil {
		return err
	}
	*v.updates = append(*v.updates, u)
	return nil
}

func (v *updatesValue) Type() string {
	return "attribute=value"
}
