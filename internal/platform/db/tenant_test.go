package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestConnFromContext_Empty(t *testing.T) {
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Error("expected nil connection for empty context")
	}
}

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "clinic_a")
	if got := TenantFromContext(ctx); got != "clinic_a" {
		t.Errorf("expected clinic_a, got %s", got)
	}
}

func TestTenantFromContext_Empty(t *testing.T) {
	if got := TenantFromContext(context.Background()); got != "" {
		t.Errorf("expected empty tenant, got %s", got)
	}
}

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx for empty context")
	}
}

func TestExtractTenantID_Header(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "clinic_b")
	c := e.NewContext(req, httptest.NewRecorder())

	if got := extractTenantID(c, "default"); got != "clinic_b" {
		t.Errorf("expected clinic_b, got %s", got)
	}
}

func TestExtractTenantID_JWTClaimWins(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "header_tenant")
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("jwt_tenant_id", "jwt_tenant")

	if got := extractTenantID(c, "default"); got != "jwt_tenant" {
		t.Errorf("expected jwt_tenant, got %s", got)
	}
}

func TestExtractTenantID_Default(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if got := extractTenantID(c, "default"); got != "default" {
		t.Errorf("expected default, got %s", got)
	}
}

func TestTenantIDPattern(t *testing.T) {
	valid := []string{"default", "clinic_1", "A2"}
	invalid := []string{"", "a-b", "x;drop", "a b"}

	for _, id := range valid {
		if !tenantIDPattern.MatchString(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}
	for _, id := range invalid {
		if tenantIDPattern.MatchString(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}
