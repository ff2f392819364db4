package middleware

import (
	"liveroom/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedProbe(t *testing.T) (*AuthMiddleware, *service.AuthService, http.Handler) {
	t.Helper()
	authSvc := service.NewAuthService("test-secret")
	mw := NewAuthMiddleware(authSvc)
	probe := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	}))
	return mw, authSvc, probe
}

func TestRequireUser_BearerHeader(t *testing.T) {
	_, authSvc, probe := authedProbe(t)

	token, err := authSvc.IssueToken("u_alice", false)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/v1/rooms/r_x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	probe.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "u_alice" {
		t.Errorf("expected user id in context, got %q", rec.Body.String())
	}
}

func TestRequireUser_QueryParam(t *testing.T) {
	_, authSvc, probe := authedProbe(t)

	token, err := authSvc.IssueToken("u_bob", false)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/v1/rooms/r_x?token="+token, nil)
	rec := httptest.NewRecorder()
	probe.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "u_bob" {
		t.Errorf("expected user id in context, got %q", rec.Body.String())
	}
}

func TestRequireUser_Rejections(t *testing.T) {
	_, _, probe := authedProbe(t)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing token", func(r *http.Request) {}},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/rooms/r_x", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			probe.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}
