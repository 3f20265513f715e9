package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeProjectNotFound, "project Blink not found")

	if err == nil {
		t.Fatal("New should return non-nil error")
	}

	if err.Code != ErrCodeProjectNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeProjectNotFound)
	}

	if err.Message != "project Blink not found" {
		t.Errorf("Message = %v, want 'project Blink not found'", err.Message)
	}

	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("original error")
	err := Wrap(underlying, ErrCodeStorageRead, "failed to read file")

	if err == nil {
		t.Fatal("Wrap should return non-nil error")
	}

	if err.Underlying != underlying {
		t.Error("Underlying should be preserved")
	}

	if err.Code != ErrCodeStorageRead {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorageRead)
	}

	if !strings.Contains(err.Error(), "original error") {
		t.Error("Error string should include underlying error")
	}
}

func TestWrap_Nil(t *testing.T) {
	err := Wrap(nil, ErrCodeInternal, "test")
	if err != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found").
		WithContext("project", "Blink").
		WithContext("path", "Blink.ino")

	if len(err.Context) != 2 {
		t.Errorf("Context size = %d, want 2", len(err.Context))
	}

	msg := err.Error()
	if !strings.Contains(msg, "FILE_NOT_FOUND") {
		t.Errorf("Error string missing code: %s", msg)
	}
	if !strings.Contains(msg, "Blink.ino") {
		t.Errorf("Error string missing context: %s", msg)
	}
}

func TestUnwrap(t *testing.T) {
	underlying := errors.New("disk full")
	err := Wrap(underlying, ErrCodeStorageWrite, "write failed")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeProjectExists, "project exists")

	if !IsCode(err, ErrCodeProjectExists) {
		t.Error("IsCode should match the error's code")
	}
	if IsCode(err, ErrCodeProjectNotFound) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(nil, ErrCodeProjectExists) {
		t.Error("IsCode(nil) should be false")
	}
	if IsCode(errors.New("plain"), ErrCodeProjectExists) {
		t.Error("IsCode should be false for unstructured errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
	if got := GetCode(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("GetCode(plain) = %v, want %v", got, ErrCodeInternal)
	}
	if got := GetCode(New(ErrCodeLibraryNotFound, "x")); got != ErrCodeLibraryNotFound {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeLibraryNotFound)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeProjectNotFound, http.StatusNotFound},
		{ErrCodeLibraryNotFound, http.StatusNotFound},
		{ErrCodeFileNotFound, http.StatusNotFound},
		{ErrCodeProjectExists, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeStorageRead, http.StatusInternalServerError},
		{ErrCodeStorageWrite, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeToolExecution, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.code); got != tc.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestStatusForError(t *testing.T) {
	if got := StatusForError(nil); got != http.StatusOK {
		t.Errorf("StatusForError(nil) = %d, want 200", got)
	}
	if got := StatusForError(New(ErrCodeProjectExists, "dup")); got != http.StatusBadRequest {
		t.Errorf("StatusForError(conflict) = %d, want 400", got)
	}
}
