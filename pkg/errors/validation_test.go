package errors

import (
	"strings"
	"testing"
)

func TestValidateGraphID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "6f1c1c3e-1f7b-4b8e-9a53-2f1f0c5f6f3a", false},
		{"valid slug", "people_2024.v2", false},
		{"valid max length", strings.Repeat("a", 128), false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraphID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidID {
				t.Errorf("ValidateGraphID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    rune
		wantErr bool
	}{
		{"auto", "", 0, false},
		{"comma", ",", ',', false},
		{"semicolon", ";", ';', false},
		{"pipe", "|", '|', false},
		{"literal tab", "\t", '\t', false},
		{"escaped tab", `\t`, '\t', false},

		{"two chars", ",;", 0, true},
		{"quote", `"`, 0, true},
		{"newline", "\n", 0, true},
		{"carriage return", "\r", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelimiter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if tt.wantErr && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ParseDelimiter(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
