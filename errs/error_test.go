package errs

import (
	"fmt"
	"net/http"
	"testing"
)

func TestErrorCodeAndMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
		status  int
	}{
		{"nil", nil, "", "", http.StatusInternalServerError},
		{"app error", Errorf(ENOTFOUND, "Post %d not found.", 3), ENOTFOUND, "Post 3 not found.", http.StatusNotFound},
		{"conflict", Errorf(ECONFLICT, "Taken."), ECONFLICT, "Taken.", http.StatusConflict},
		{"forbidden", Errorf(EFORBIDDEN, "No."), EFORBIDDEN, "No.", http.StatusForbidden},
		{"wrapped", fmt.Errorf("err loading: %w", Errorf(EINVALID, "Bad.")), EINVALID, "Bad.", http.StatusBadRequest},
		{"private", UserIdValid, EINTERNAL, "Internal error.", http.StatusInternalServerError},
		{"plain", fmt.Errorf("boom"), EINTERNAL, "Internal error.", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.code)
			}
			if got := ErrorMessage(tt.err); got != tt.message {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.message)
			}
			if got := StatusCode(ErrorCode(tt.err)); got != tt.status {
				t.Errorf("StatusCode() = %d, want %d", got, tt.status)
			}
		})
	}
}
