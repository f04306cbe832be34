package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gerrors "github.com/matzehuels/graphloom/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code gerrors.Code
		want int
	}{
		{gerrors.ErrCodeMalformedInput, http.StatusBadRequest},
		{gerrors.ErrCodeInvalidInput, http.StatusBadRequest},
		{gerrors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{gerrors.ErrCodeInvalidID, http.StatusBadRequest},
		{gerrors.ErrCodeDuplicateIdentifier, http.StatusUnprocessableEntity},
		{gerrors.ErrCodeUnresolvedReference, http.StatusUnprocessableEntity},
		{gerrors.ErrCodeNotFound, http.StatusNotFound},
		{gerrors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    gerrors.Code
		message string
	}{
		{
			name:    "classified",
			err:     gerrors.New(gerrors.ErrCodeNotFound, "graph %q not found", "g1"),
			status:  http.StatusNotFound,
			code:    gerrors.ErrCodeNotFound,
			message: `graph "g1" not found`,
		},
		{
			name:    "plain error hides details",
			err:     errors.New("disk on fire"),
			status:  http.StatusInternalServerError,
			code:    gerrors.ErrCodeInternal,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := WriteError(rec, tt.err); got != tt.status {
				t.Errorf("WriteError() = %d, want %d", got, tt.status)
			}
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code || body.Error.Message != tt.message {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?directed=false&min=1.5&bad=yes&num=abc", nil)

	v, ok, err := QueryBool(r, "directed")
	if err != nil || !ok || v {
		t.Errorf("QueryBool(directed) = %v, %v, %v", v, ok, err)
	}
	if _, ok, err := QueryBool(r, "absent"); ok || err != nil {
		t.Errorf("QueryBool(absent) = %v, %v", ok, err)
	}
	if _, _, err := QueryBool(r, "bad"); !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("QueryBool(bad) error = %v", err)
	}

	f, err := QueryFloat(r, "min")
	if err != nil || f == nil || *f != 1.5 {
		t.Errorf("QueryFloat(min) = %v, %v", f, err)
	}
	if f, err := QueryFloat(r, "absent"); f != nil || err != nil {
		t.Errorf("QueryFloat(absent) = %v, %v", f, err)
	}
	if _, err := QueryFloat(r, "num"); !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("QueryFloat(num) error = %v", err)
	}
}
