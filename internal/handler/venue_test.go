package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func venueUpdateReq(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := &VenueHandler{}
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// Field-level validation errors stay fatal even when the request also
// carries image operations.
func TestUpdateFieldErrorsNotMaskedByImageOps(t *testing.T) {
	rec := venueUpdateReq(t,
		`{"geometry":"CIRCLE(0 0 1)","imagesToDelete":["uploads/lieux/a.png"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "données invalides") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpdateRejectsEmptyBody(t *testing.T) {
	rec := venueUpdateReq(t, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
