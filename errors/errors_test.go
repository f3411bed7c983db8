package errors

import (
	goerrors "errors"
	"testing"
)

func TestWrappedError(t *testing.T) {
	base := goerrors.New("no such table")
	err := NewWrapped("Could not list servers", base)
	if err.Error() != "Could not list servers: no such table" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !goerrors.Is(err, base) {
		t.Error("Expected wrapped error to unwrap to its cause")
	}
}

func TestErrors(t *testing.T) {
	errs := make(Errors)
	if !errs.Empty() {
		t.Error("Expected new errors to be empty")
	}
	errs.Add("name", "must not be blank")
	errs.Add("name", "is already taken")
	if errs.Empty() {
		t.Error("Expected errors not to be empty")
	}
	if len(errs["name"]) != 2 {
		t.Errorf("Expected two messages, got %v", errs["name"])
	}
	data, err := errs.JSON()
	if err != nil {
		t.Fatal(err)
	}
	expected := "{\n    \"errors\": {\n        \"name\": [\n            \"must not be blank\",\n            \"is already taken\"\n        ]\n    }\n}"
	if string(data) != expected {
		t.Errorf("Unexpected JSON %s", data)
	}
}
