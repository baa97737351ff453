package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadtrack_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return body
}

func TestOKEnvelope(t *testing.T) {
	c, rec := testContext(t)

	OK(c, gin.H{"leads": []string{}})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if _, ok := body["leads"]; !ok {
		t.Error("payload field missing from envelope")
	}
}

func TestErrorEnvelope(t *testing.T) {
	c, rec := testContext(t)

	Error(c, http.StatusNotFound, "lead not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "lead not found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperr.NotFound("lead not found"), http.StatusNotFound},
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest},
		{"conflict", apperr.Conflict("lead is not deleted"), http.StatusConflict},
		{"unauthorized", apperr.Unauthorized("missing token"), http.StatusUnauthorized},
		{"gone", apperr.Gone("purged"), http.StatusGone},
		{"transient", apperr.Transient("store unavailable", errors.New("timeout")), http.StatusInternalServerError},
		{"untyped", errors.New("boom"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := testContext(t)

			if handled := HandleError(c, tc.err); !handled {
				t.Fatal("HandleError returned false for non-nil error")
			}
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
			if body := decode(t, rec); body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	c, _ := testContext(t)
	if HandleError(c, nil) {
		t.Error("HandleError(nil) must return false")
	}
}
