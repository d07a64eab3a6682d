// ShopifyQ | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func requestWithPlan(plan string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, "user-1")
	ctx = context.WithValue(ctx, UserPlanKey, plan)
	return req.WithContext(ctx)
}

func TestRequirePlan(t *testing.T) {
	tests := []struct {
		name       string
		userPlan   string
		minPlan    string
		wantStatus int
	}{
		{"free blocked from starter", "free", "starter", http.StatusForbidden},
		{"starter allowed at starter", "starter", "starter", http.StatusOK},
		{"starter blocked from pro", "starter", "pro", http.StatusForbidden},
		{"pro allowed at starter", "pro", "starter", http.StatusOK},
		{"pro allowed at pro", "pro", "pro", http.StatusOK},
		{"enterprise allowed at pro", "enterprise", "pro", http.StatusOK},
		{"unknown plan treated as free", "legacy_gold", "starter", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			RequirePlan(tt.minPlan)(next).ServeHTTP(rr, requestWithPlan(tt.userPlan))

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if wantReached := tt.wantStatus == http.StatusOK; reached != wantReached {
				t.Errorf("handler reached = %v, want %v", reached, wantReached)
			}
		})
	}
}

func TestRequirePlanUnauthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	rr := httptest.NewRecorder()
	RequirePlan("starter")(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := ExtractToken(req); got != tt.want {
				t.Errorf("ExtractToken = %q, want %q", got, tt.want)
			}
		})
	}
}
