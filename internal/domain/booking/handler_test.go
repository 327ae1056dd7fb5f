package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func newTestHandler() (*Handler, *mockSlotRepo, *mockApptRepo, *echo.Echo) {
	svc, slots, appts := newTestService()
	return NewHandler(svc), slots, appts, echo.New()
}

func asIdentity(req *http.Request, id auth.Identity) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), id))
}

func TestHandler_Book(t *testing.T) {
	h, slots, _, e := newTestHandler()
	slots.add(TimeSlot{ID: 5, DoctorID: 10, IsAvailable: true})

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"doctor_id":10,"slot_id":5,"reason_for_visit":"knee pain"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asIdentity(req, patient(100))
	rec := httptest.NewRecorder()

	if err := h.Book(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["appointment_id"] == nil {
		t.Error("expected appointment_id in response")
	}
}

func TestHandler_Book_TakenSlot(t *testing.T) {
	h, slots, _, e := newTestHandler()
	slots.add(TimeSlot{ID: 5, DoctorID: 10, IsAvailable: false})

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"doctor_id":10,"slot_id":5,"reason_for_visit":"knee pain"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asIdentity(req, patient(100))

	err := h.Book(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Book_MalformedBody(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"doctor_id":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asIdentity(req, patient(100))

	err := h.Book(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_List_EmptyIsArray(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = asIdentity(req, patient(100))
	rec := httptest.NewRecorder()

	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"appointments":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandler_List_BadStatus(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/?status=bogus", nil)
	req = asIdentity(req, patient(100))

	err := h.List(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Cancel_NotFound(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = asIdentity(req, patient(100))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.Cancel(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Cancel_BadID(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = asIdentity(req, patient(100))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Cancel(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Cancel_OtherPatient(t *testing.T) {
	h, slots, appts, e := newTestHandler()
	slots.add(TimeSlot{ID: 5, DoctorID: 10, IsAvailable: false})
	appts.appts[1] = &Appointment{ID: 1, PatientID: 100, DoctorID: 10, SlotID: 5, Status: StatusScheduled}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = asIdentity(req, patient(200))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.Cancel(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}
