package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOKKeepsEmptySlices(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, []int{})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true,"data":[]}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestValidationErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"days": "Value must be at least 1"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	want := `{"success":false,"data":null,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":{"days":"Value must be at least 1"}}}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("unexpected body:\n got: %s\nwant: %s", got, want)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}
