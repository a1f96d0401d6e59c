package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeEmptyTable, "no rows survived cleaning"),
			want: "EMPTY_TABLE: no rows survived cleaning",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeNetwork, stderrors.New("connection refused"), "fetch dataset"),
			want: "NETWORK_ERROR: fetch dataset: connection refused",
		},
		{
			name: "formatted message",
			err:  New(ErrCodeSchemaMissingField, "dataset has no %q column", "mass"),
			want: `SCHEMA_MISSING_FIELD: dataset has no "mass" column`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeTimeout, "fetch timed out")

	if !Is(err, ErrCodeTimeout) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeTimeout) {
		t.Error("Is() = true for non-structured error")
	}
}

func TestIs_Wrapped(t *testing.T) {
	inner := New(ErrCodeSchemaMissingField, "no year column")
	outer := fmt.Errorf("clean: %w", inner)

	if !Is(outer, ErrCodeSchemaMissingField) {
		t.Error("Is() should unwrap fmt.Errorf chains")
	}
	if GetCode(outer) != ErrCodeSchemaMissingField {
		t.Errorf("GetCode() = %q, want %q", GetCode(outer), ErrCodeSchemaMissingField)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: timeout")
	err := Wrap(ErrCodeNetwork, cause, "fetch")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeEmptyTable, "nothing to analyze"), "nothing to analyze"},
		{"plain", stderrors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCode_NonStructured(t *testing.T) {
	if code := GetCode(stderrors.New("plain")); code != "" {
		t.Errorf("GetCode() = %q, want empty", code)
	}
}
