package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"serveradmin/config"
	"serveradmin/dataset"
	aphttp "serveradmin/http"
	"serveradmin/logreport"
	"serveradmin/query"
)

// Error types reported to clients.
const (
	DatasetErrorType     = "DatasetError"
	ValidationErrorType  = "ValidationError"
	PermissionDeniedType = "PermissionDenied"
	ServerErrorType      = "ServerError"
)

// typedError is an aphttp.Error that also names its kind for clients.
type typedError struct {
	err  aphttp.Error
	kind string
}

func newTypedError(err error, code int, kind string) aphttp.Error {
	return &typedError{err: aphttp.NewError(err, code), kind: kind}
}

func (t *typedError) Error() error   { return t.err.Error() }
func (t *typedError) String() string { return t.err.String() }
func (t *typedError) Code() int      { return t.err.Code() }

func permissionDenied(format string, args ...interface{}) aphttp.Error {
	return newTypedError(fmt.Errorf(format, args...), http.StatusForbidden, PermissionDeniedType)
}

// errorFor maps errors of the inventory to API errors.
func errorFor(r *http.Request, err error) aphttp.Error {
	var datasetErr *dataset.Error
	var validationErr *dataset.ValidationError
	var parseErr *query.ParseError
	switch {
	case errors.As(err, &validationErr):
		return newTypedError(err, http.StatusBadRequest, ValidationErrorType)
	case errors.As(err, &datasetErr), errors.As(err, &parseErr):
		return newTypedError(err, http.StatusBadRequest, DatasetErrorType)
	}
	logreport.Printf("%s [req %s] Error: %v", config.API, aphttp.RequestID(r), err)
	return newTypedError(errors.New("Server error"), http.StatusInternalServerError, ServerErrorType)
}

func kindOf(err aphttp.Error) string {
	if t, ok := err.(*typedError); ok {
		return t.kind
	}
	if err.Code() == http.StatusForbidden {
		return PermissionDeniedType
	}
	if err.Code() < http.StatusInternalServerError {
		return DatasetErrorType
	}
	return ServerErrorType
}

// JSONResponseHandler renders handler errors in the API's error format.
func JSONResponseHandler(handler aphttp.ErrorReturningHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httpErr := handler(w, r); httpErr != nil {
			writeJSON(w, httpErr.Code(), struct {
				Status  string `json:"status"`
				Type    string `json:"type"`
				Message string `json:"message"`
			}{"error", kindOf(httpErr), httpErr.String()})
		}
	})
}

func writeSuccess(w http.ResponseWriter, result interface{}) aphttp.Error {
	if result == nil {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
		}{"success"})
		return nil
	}
	writeJSON(w, http.StatusOK, struct {
		Status string      `json:"status"`
		Result interface{} `json:"result"`
	}{"success", result})
	return nil
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logreport.Printf("%s Error serializing response: %v", config.API, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
	w.Write([]byte("\n"))
}
