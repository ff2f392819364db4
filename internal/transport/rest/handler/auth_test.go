package handler

import (
	"encoding/json"
	"liveroom/internal/model"
	"liveroom/internal/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func issueToken(t *testing.T, h *AuthHandler, body string) (*httptest.ResponseRecorder, model.TokenResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/auth/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	var resp model.TokenResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, resp
}

func TestToken_RegularIssuance(t *testing.T) {
	authSvc := service.NewAuthService("test-secret")
	h := NewAuthHandler(authSvc, "admin-pass")

	rec, resp := issueToken(t, h, `{"userId":"u_alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	claims, err := authSvc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token must validate: %v", err)
	}
	if claims.UserID != "u_alice" {
		t.Errorf("expected user u_alice, got %s", claims.UserID)
	}
	if claims.Elevated {
		t.Error("token issued without the admin password must not be elevated")
	}
}

func TestToken_ElevatedIssuance(t *testing.T) {
	authSvc := service.NewAuthService("test-secret")
	h := NewAuthHandler(authSvc, "admin-pass")

	rec, resp := issueToken(t, h, `{"userId":"u_admin","password":"admin-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	claims, err := authSvc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token must validate: %v", err)
	}
	if !claims.Elevated {
		t.Error("expected elevated claim with the correct admin password")
	}
}

func TestToken_WrongPassword(t *testing.T) {
	authSvc := service.NewAuthService("test-secret")
	h := NewAuthHandler(authSvc, "admin-pass")

	rec, _ := issueToken(t, h, `{"userId":"u_mallory","password":"guess"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", rec.Code)
	}
}

func TestToken_ElevationDisabled(t *testing.T) {
	authSvc := service.NewAuthService("test-secret")
	h := NewAuthHandler(authSvc, "")

	rec, _ := issueToken(t, h, `{"userId":"u_admin","password":"anything"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when elevation is disabled, got %d", rec.Code)
	}
}

func TestToken_MissingUserID(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService("test-secret"), "")

	rec, _ := issueToken(t, h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
