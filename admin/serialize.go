package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"serveradmin/config"
	aperrors "serveradmin/errors"
	aphttp "serveradmin/http"
	"serveradmin/logreport"

	"github.com/gorilla/mux"
)

func instanceID(r *http.Request) int64 {
	return parseID(mux.Vars(r)["id"])
}

func collectionIDFromPath(r *http.Request) int64 {
	return parseID(mux.Vars(r)["collectionID"])
}

func parseID(id string) int64 {
	i, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return -1
	}
	return i
}

func deserialize(dest interface{}, r *http.Request) aphttp.Error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return aphttp.NewError(err, http.StatusInternalServerError)
	}

	err = json.Unmarshal(body, dest)
	if err != nil {
		return aphttp.NewError(err, http.StatusBadRequest)
	}

	return nil
}

func serialize(data interface{}, w http.ResponseWriter) aphttp.Error {
	dataJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		logreport.Printf("%s Error serializing data: %v, %v", config.Admin, err, data)
		return aphttp.DefaultServerError()
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, "%s\n", string(dataJSON))
	return nil
}

// SerializableValidationErrors is an aphttp.Error rendering validation
// errors as the response body.
type SerializableValidationErrors struct {
	Errors aperrors.Errors `json:"errors"`
}

func (e SerializableValidationErrors) Error() error {
	return nil
}

// Body returns the JSON representation of the errors.
func (e SerializableValidationErrors) Body() string {
	errorsJSON, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return fmt.Sprintf("%s", e.Errors)
	}
	return string(errorsJSON)
}

func (e SerializableValidationErrors) String() string {
	return e.Body()
}

// Code is always 400.
func (e SerializableValidationErrors) Code() int {
	return http.StatusBadRequest
}

// validationError builds the error returned for invalid records.
func validationError(errors aperrors.Errors) aphttp.Error {
	return SerializableValidationErrors{errors}
}
