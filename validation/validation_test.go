package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name    string   `mapstructure:"name" validate:"required"`
	BaseURL string   `mapstructure:"base_url" validate:"omitempty,url"`
	Workers int      `mapstructure:"workers" validate:"gte=0,lte=64"`
	Format  string   `mapstructure:"format" validate:"omitempty,oneof=json yaml"`
	Codes   []int    `mapstructure:"codes" validate:"dive,gte=300"`
	Nested  inner    `mapstructure:"nested"`
	Skip    string   `validate:"omitempty,url"`
	Tags    []string `mapstructure:"tags"`
}

type inner struct {
	Port int `mapstructure:"port" validate:"lte=65535"`
}

func TestStruct_Valid(t *testing.T) {
	s := sample{Name: "svc", BaseURL: "https://example.com", Workers: 5, Format: "json", Codes: []int{404}}
	if err := Struct(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_FieldNames(t *testing.T) {
	s := sample{BaseURL: "not a url", Workers: 100, Format: "xml", Codes: []int{200}, Nested: inner{Port: 70000}, Skip: "::"}
	err := Struct(s)

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	for _, field := range []string{"name", "base_url", "workers", "format", "codes[0]", "nested.port", "skip"} {
		if !verr.Has(field) {
			t.Errorf("expected failure on %q, got %v", field, verr.Fields)
		}
	}
	if !strings.HasPrefix(verr.Error(), "validation failed: ") {
		t.Errorf("unexpected message %q", verr.Error())
	}
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(sample{Format: "xml"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	want := map[string]string{
		"name":   "is required",
		"format": "must be one of: json yaml",
	}
	for _, f := range verr.Fields {
		if msg, ok := want[f.Field]; ok && msg != f.Message {
			t.Errorf("%s: got %q, want %q", f.Field, f.Message, msg)
		}
	}
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		build   func(v *Validator)
		wantErr bool
	}{
		{"empty", func(v *Validator) {}, false},
		{"range ok", func(v *Validator) { v.Range("n", 5, 1, 10) }, false},
		{"range low", func(v *Validator) { v.Range("n", 0, 1, 10) }, true},
		{"range high", func(v *Validator) { v.Range("n", 11, 1, 10) }, true},
		{"oneof ok", func(v *Validator) { v.OneOf("f", "a", []string{"a", "b"}) }, false},
		{"oneof empty skipped", func(v *Validator) { v.OneOf("f", "", []string{"a"}) }, false},
		{"oneof bad", func(v *Validator) { v.OneOf("f", "c", []string{"a", "b"}) }, true},
		{"custom ok", func(v *Validator) { v.Custom(true, "x", "bad") }, false},
		{"custom bad", func(v *Validator) { v.Custom(false, "x", "bad") }, true},
		{"merge nil", func(v *Validator) { v.Merge("x", nil) }, false},
		{"merge plain", func(v *Validator) { v.Merge("x", errors.New("boom")) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.build(v)
			if got := v.Err() != nil; got != tt.wantErr {
				t.Errorf("Err() != nil = %v, want %v (%v)", got, tt.wantErr, v.Errors())
			}
		})
	}
}

func TestValidator_MergeStructErrors(t *testing.T) {
	v := New().Merge("sample", Struct(sample{}))
	if !v.HasErrors() {
		t.Fatal("expected merged errors")
	}
	if v.Errors()[0].Field != "name" {
		t.Errorf("expected name field first, got %v", v.Errors())
	}
}
