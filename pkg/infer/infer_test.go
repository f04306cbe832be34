package infer

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"integer", "42", int64(42)},
		{"negative integer", "-7", int64(-7)},
		{"float", "3.14", 3.14},
		{"exponent", "1e3", 1000.0},
		{"date", "2024-01-15", Date{2024, time.January, 15}},
		{"text", "hello", "hello"},
		{"bool true", true, "True"},
		{"bool false", false, "False"},
		{"partial number", "42abc", "42abc"},
		{"padded integer", " 42", " 42"},
		{"empty", "", ""},
		{"nan stays text", "NaN", "NaN"},
		{"inf stays text", "inf", "inf"},
		{"invalid date", "2024-02-30", "2024-02-30"},
		{"datetime stays text", "2024-01-15T10:00:00", "2024-01-15T10:00:00"},
		{"int passthrough", 5, int64(5)},
		{"float passthrough", 2.5, 2.5},
		{"positive infinity becomes text", math.Inf(1), "+Inf"},
		{"negative infinity becomes text", math.Inf(-1), "-Inf"},
		{"not a number becomes text", math.NaN(), "NaN"},
		{"float32 infinity becomes text", float32(math.Inf(1)), "+Inf"},
		{"json number int", json.Number("12"), int64(12)},
		{"json number float", json.Number("1.5"), 1.5},
		{"integer overflow becomes float", "99999999999999999999", 1e20},
		{"nil", nil, nil},
		{"time", time.Date(2023, 5, 6, 13, 0, 0, 0, time.UTC), Date{2023, time.May, 6}},
		{"other", []int{1}, "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Infer(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Infer(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInferIdempotent(t *testing.T) {
	for _, in := range []any{"42", "3.14", "2024-01-15", "hello", true} {
		once := Infer(in)
		twice := Infer(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Infer(Infer(%v)) = %#v, want %#v", in, twice, once)
		}
	}
}

func TestInferMap(t *testing.T) {
	in := map[string]any{"age": "30", "name": "Alice", "score": "9.5"}
	got := InferMap(in)

	want := map[string]any{"age": int64(30), "name": "Alice", "score": 9.5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InferMap() = %#v, want %#v", got, want)
	}
	if in["age"] != "30" {
		t.Error("InferMap() modified its input")
	}
	if m := InferMap(nil); m == nil || len(m) != 0 {
		t.Errorf("InferMap(nil) = %#v, want empty map", m)
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{"2", 2, true},
		{"0.5", 0.5, true},
		{3, 3, true},
		{"heavy", 0, false},
		{math.Inf(1), 0, false},
		{math.NaN(), 0, false},
		{"2024-01-15", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := Float(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Float(%#v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDate(t *testing.T) {
	a := Date{2024, time.January, 15}
	b := Date{2024, time.March, 1}

	if !a.Before(b) || b.Before(a) {
		t.Error("Before() ordering wrong")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare() ordering wrong")
	}
	if a.String() != "2024-01-15" {
		t.Errorf("String() = %q", a.String())
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2024-01-15"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(a) {
		t.Errorf("Unmarshal = %v, want %v", back, a)
	}

	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Error("ParseDate() expected error for non-ISO date")
	}
}

func ExampleInfer() {
	for _, s := range []string{"42", "3.14", "2024-01-15", "hello"} {
		v := Infer(s)
		fmt.Printf("%T %v\n", v, v)
	}
	fmt.Println(Infer(true))
	// Output:
	// int64 42
	// float64 3.14
	// infer.Date 2024-01-15
	// string hello
	// True
}
