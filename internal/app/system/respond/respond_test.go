package respond

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/bughive/bughive/internal/domain/authz"
)

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return eb
}

func TestError_WritesCodeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	AlreadyExists(rec, "username taken")

	if rec.Code != 409 {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	eb := decodeError(t, rec.Body.Bytes())
	if eb.Error.Code != CodeAlreadyExists {
		t.Errorf("code = %q, want %q", eb.Error.Code, CodeAlreadyExists)
	}
	if eb.Error.Message != "username taken" {
		t.Errorf("message = %q", eb.Error.Message)
	}
}

func TestDenied_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		decision authz.Decision
		want     int
		wantCode string
	}{
		{"unauthorized", authz.Deny(authz.ReasonUnauthorized), 403, CodeUnauthorized},
		{"invalid input", authz.Deny(authz.ReasonInvalidInput), 400, CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Denied(rec, tt.decision)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			eb := decodeError(t, rec.Body.Bytes())
			if eb.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", eb.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestDeniedHidden_ReadsAsNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	DeniedHidden(rec, authz.Deny(authz.ReasonUnauthorized))
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	eb := decodeError(t, rec.Body.Bytes())
	if eb.Error.Code != CodeNotFound {
		t.Errorf("code = %q, want %q", eb.Error.Code, CodeNotFound)
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}
