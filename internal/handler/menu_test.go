package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func createPlatReq(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("categorieId")
	c.SetParamValues("00000000-0000-0000-0000-000000000000")

	h := &MenuHandler{}
	if err := h.CreatePlat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestCreatePlatRejectsNonPositivePrice(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero price", `{"nomPlat":"Fufu","prix":0}`},
		{"negative price", `{"nomPlat":"Fufu","prix":-2.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := createPlatReq(t, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "positif") {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestCreatePlatRequiresNameAndPrice(t *testing.T) {
	rec := createPlatReq(t, `{"nomPlat":"Fufu"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
