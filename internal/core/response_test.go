// ShopifyQ | 2026
// response_test.go

package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestOKEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, map[string]string{"k": "v"})

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	env := decodeEnvelope(t, rr)
	if !env.Success || env.Error != nil {
		t.Errorf("envelope = %+v, want success with no error", env)
	}
}

func TestJSONErrorWithAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, NotFoundError("shop"))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}

	env := decodeEnvelope(t, rr)
	if env.Success {
		t.Error("error envelope marked success")
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("error body = %+v, want NOT_FOUND", env.Error)
	}
	if env.Error.Message != "shop not found" {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestJSONErrorHidesPlainErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, ErrUpstream)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}

	env := decodeEnvelope(t, rr)
	if env.Error == nil || env.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("error body = %+v, want INTERNAL_ERROR", env.Error)
	}
}

func TestPaginatedMeta(t *testing.T) {
	rr := httptest.NewRecorder()
	Paginated(rr, []int{1, 2, 3}, 2, 3, 10)

	env := decodeEnvelope(t, rr)
	if env.Meta == nil {
		t.Fatal("expected pagination meta")
	}
	if env.Meta.Page != 2 || env.Meta.PageSize != 3 || env.Meta.Total != 10 {
		t.Errorf("meta = %+v", env.Meta)
	}
	if env.Meta.TotalPages != 4 {
		t.Errorf("total pages = %d, want 4", env.Meta.TotalPages)
	}
}
