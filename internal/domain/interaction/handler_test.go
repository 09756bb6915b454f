package interaction

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(records ...*DrugInteraction) (*Handler, *echo.Echo) {
	svc, _ := newTestService(records...)
	return NewHandler(svc), echo.New()
}

// ── Check Handlers ──

func TestHandler_Check(t *testing.T) {
	h, e := newTestHandler(
		record("metformin", "A10BA02", "warfarin", "B01AA03", SeverityModerate),
	)
	body := `{"drug_codes":["A10BA02","B01AA03"]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Check(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result CheckResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if result.TotalCount != 1 {
		t.Errorf("expected 1 interaction, got %d", result.TotalCount)
	}
	if !strings.Contains(rec.Body.String(), `"highest_severity":"moderate"`) {
		t.Errorf("severity must serialize as a lowercase token: %s", rec.Body.String())
	}
}

func TestHandler_Check_EmptyList(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"drug_codes":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Check(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("an empty list is a valid query, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"interactions":[]`) {
		t.Errorf("empty result must keep an empty array, got %s", rec.Body.String())
	}
}

func TestHandler_CheckNew(t *testing.T) {
	h, e := newTestHandler(
		record("ibuprofen", "M01AE01", "warfarin", "B01AA03", SeverityMajor),
	)
	body := `{"new_drug_code":"M01AE01","existing_drug_codes":["B01AA03"],"min_severity":"moderate"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CheckNew(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_CheckNew_MissingCode(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"existing_drug_codes":["B01AA03"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CheckNew(c); err == nil {
		t.Error("expected error for missing new_drug_code")
	}
}

func TestHandler_CheckNewForPatient_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"medication_name":"Brufen"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("not-a-uuid")
	if err := h.CheckNewForPatient(c); err == nil {
		t.Error("expected error for invalid patient id")
	}
}

// ── Reference Data Handlers ──

func TestHandler_CreateInteraction(t *testing.T) {
	h, e := newTestHandler()
	body := `{"drug_a_atc":"A10BA02","drug_b_atc":"B01AA03","severity":"moderate"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateInteraction(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_CreateInteraction_MissingCode(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"drug_a_atc":"A10BA02"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateInteraction(c); err == nil {
		t.Error("expected error for missing drug_b_atc")
	}
}

func TestHandler_GetInteraction_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	if err := h.GetInteraction(c); err == nil {
		t.Error("expected error for not found")
	}
}

func TestHandler_ImportInteractions(t *testing.T) {
	h, e := newTestHandler()
	body := `{"interactions":[
		{"drug_a_atc":"A10BA02","drug_b_atc":"B01AA03","severity":"moderate","source":"aifa"},
		{"drug_a_atc":"A10BA02","severity":"major"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ImportInteractions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"imported":1`) {
		t.Errorf("incomplete records must be skipped: %s", rec.Body.String())
	}
}
