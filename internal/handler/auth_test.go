package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestNormalizeGenre(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name  string
		in    *string
		want  string
		valid bool
	}{
		{"nil passes through", nil, "", true},
		{"masculin", str("masculin"), "masculin", true},
		{"feminin", str("feminin"), "feminin", true},
		{"case and spacing folded", str(" Masculin "), "masculin", true},
		{"outside the enum", str("autre"), "", false},
		{"empty string", str(""), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := normalizeGenre(tt.in)
			if valid != tt.valid {
				t.Fatalf("valid = %v, want %v", valid, tt.valid)
			}
			if tt.in == nil {
				if got != nil {
					t.Errorf("got %v, want nil", *got)
				}
				return
			}
			if valid && *got != tt.want {
				t.Errorf("got %q, want %q", *got, tt.want)
			}
		})
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := &AuthHandler{}
	rec := postJSON(t, h.Register,
		`{"name":"Doe","firstname":"Ama","email":"ama@example.tg","password":"abc12"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "6 caractères") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRegisterRejectsUnknownGenre(t *testing.T) {
	h := &AuthHandler{}
	rec := postJSON(t, h.Register,
		`{"name":"Doe","firstname":"Ama","email":"ama@example.tg","password":"secret","genre":"autre"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "genre invalide") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	h := &AuthHandler{}
	rec := postJSON(t, h.ResetPassword, `{"token":"x","password":"abc"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "6 caractères") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
