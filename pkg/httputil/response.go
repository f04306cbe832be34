package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"

	gerrors "github.com/matzehuels/graphloom/pkg/errors"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request.
type ErrorDetail struct {
	Code    gerrors.Code `json:"code"`
	Message string       `json:"message"`
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code gerrors.Code) int {
	switch code {
	case gerrors.ErrCodeMalformedInput,
		gerrors.ErrCodeInvalidInput,
		gerrors.ErrCodeInvalidFormat,
		gerrors.ErrCodeInvalidStyle,
		gerrors.ErrCodeInvalidID,
		gerrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case gerrors.ErrCodeDuplicateIdentifier,
		gerrors.ErrCodeUnresolvedReference,
		gerrors.ErrCodeMissingEndpoint:
		return http.StatusUnprocessableEntity
	case gerrors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteError writes err as an error response and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	code := gerrors.GetCode(err)
	if code == "" {
		code = gerrors.ErrCodeInternal
	}
	status := StatusFor(code)

	msg := gerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	_ = WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
	return status
}

// QueryBool parses an optional boolean query parameter. ok is false when the
// parameter is absent.
func QueryBool(r *http.Request, name string) (v bool, ok bool, err error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return false, false, nil
	}
	v, err = strconv.ParseBool(s)
	if err != nil {
		return false, false, gerrors.New(gerrors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, s)
	}
	return v, true, nil
}

// QueryFloat parses an optional float query parameter. It returns nil when
// the parameter is absent.
func QueryFloat(r *http.Request, name string) (*float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "query parameter %s: %q is not a number", name, s)
	}
	return &f, nil
}
