package validation_test

import (
	"errors"
	"testing"

	"winsbygroup.com/custbook/internal/validation"
)

type person struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty" validate:"required"`
	Sort  string `query:"sort" validate:"omitempty,oneof=asc desc"`
}

func (p *person) Normalize() {
	p.Name = validation.Clean(p.Name)
	p.Email = validation.Clean(p.Email)
}

type filter struct {
	City  string `query:"city" validate:"required_without_all=State"`
	State string `query:"state"`
}

func TestValidate(t *testing.T) {
	v := validation.New()

	t.Run("accepts a complete payload", func(t *testing.T) {
		if err := v.Validate(&person{Name: "Ann", Email: "ann@example.com"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("reports every missing field by tag name", func(t *testing.T) {
		err := v.Validate(&person{})

		var ve *validation.Error
		if !errors.As(err, &ve) {
			t.Fatalf("expected *validation.Error, got %T", err)
		}
		if len(ve.Fields) != 2 {
			t.Fatalf("expected 2 field errors, got %+v", ve.Fields)
		}
		if ve.Fields[0].Field != "name" || ve.Fields[0].Message != "name is required" {
			t.Errorf("unexpected first error: %+v", ve.Fields[0])
		}
		if ve.Fields[1].Field != "email" {
			t.Errorf("expected email, got %q", ve.Fields[1].Field)
		}
	})

	t.Run("blank strings are empty", func(t *testing.T) {
		p := &person{Name: "  \t", Email: "a@b.c"}
		err := v.Validate(p)

		var ve *validation.Error
		if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0].Field != "name" {
			t.Fatalf("expected name to be rejected, got %v", err)
		}
	})

	t.Run("oneof lists the allowed values", func(t *testing.T) {
		err := v.Validate(&person{Name: "Ann", Email: "a@b.c", Sort: "up"})

		var ve *validation.Error
		if !errors.As(err, &ve) {
			t.Fatalf("expected *validation.Error, got %v", err)
		}
		if ve.Fields[0].Field != "sort" || ve.Fields[0].Message != "sort must be one of: asc, desc" {
			t.Errorf("unexpected error: %+v", ve.Fields[0])
		}
	})

	t.Run("required_without_all", func(t *testing.T) {
		if err := v.Validate(&filter{State: "MH"}); err != nil {
			t.Errorf("expected state alone to pass, got %v", err)
		}
		err := v.Validate(&filter{})
		var ve *validation.Error
		if !errors.As(err, &ve) || ve.Fields[0].Field != "city" {
			t.Errorf("expected city error, got %v", err)
		}
	})
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Ann  ", "Ann"},
		{"Jose\u0301", "Jos\u00e9"}, // decomposed e + acute becomes one rune
		{"", ""},
	}
	for _, tt := range tests {
		if got := validation.Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &validation.Error{Fields: []validation.FieldError{
		{Field: "a", Message: "a is required"},
		{Field: "b", Message: "b is required"},
	}}
	if got := err.Error(); got != "validation failed: a is required; b is required" {
		t.Errorf("unexpected message %q", got)
	}
}
