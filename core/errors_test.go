package core

import (
	"testing"

	"github.com/pkg/errors"
)

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestFailed(t *testing.T) {
	boom := errors.New("Student with ID 3 not found")
	tests := []struct {
		name   string
		action string
		err    error
		want   string
	}{
		{name: "plain", action: "Load students", err: boom, want: "Load students failed: Student with ID 3 not found"},
		{name: "wrapped", action: "Load student", err: errors.Wrap(boom, "fetching student"), want: "Load student failed: Student with ID 3 not found"},
		{name: "validation", action: "Save course", err: NewValidationError(nil, FieldError{Field: "code", Error: "this field cannot be blank"}), want: "Save course failed: code: this field cannot be blank"},
		{name: "empty message", action: "Logout", err: emptyErr{}, want: "Logout failed: unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Failed(tt.action, tt.err)
			if err.Error() != tt.want {
				t.Errorf("Failed() = %q, want %q", err.Error(), tt.want)
			}
			if errors.Cause(err) != errors.Cause(tt.err) {
				t.Errorf("Cause() = %v, want %v", errors.Cause(err), errors.Cause(tt.err))
			}
		})
	}

	if Failed("Nothing", nil) != nil {
		t.Error("Failed(nil) should be nil")
	}
}

func TestIsValidation(t *testing.T) {
	verr := NewValidationError(errors.New("nothing to update"))
	if !IsValidation(verr) || !IsValidation(Failed("Save student", verr)) {
		t.Error("IsValidation() = false for a validation error")
	}
	if IsValidation(errors.New("boom")) {
		t.Error("IsValidation() = true for a plain error")
	}
}

func TestValidator_Struct(t *testing.T) {
	type form struct {
		Name  string `json:"name" validate:"notblank"`
		Email string `json:"email" validate:"required,email"`
	}
	v := NewValidator()

	if err := v.Struct(form{Name: "x", Email: "x@school.io"}); err != nil {
		t.Fatalf("Struct() error = %v", err)
	}

	err := v.Struct(form{Name: "  "})
	if !IsValidation(err) {
		t.Fatalf("Struct() error = %v, want a validation error", err)
	}
	if want := "email: this field is required; name: this field cannot be blank"; err.Error() != want {
		t.Errorf("Struct() error = %q, want %q", err.Error(), want)
	}
}
