package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func testSessions() *Sessions {
	return NewSessions("test-secret", time.Hour, false)
}

func TestSessions_IssueAndParse(t *testing.T) {
	s := testSessions()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	want := Identity{ID: 42, Role: RolePatient, Email: "kate@example.com"}
	if err := s.Issue(c, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected %s cookie, got %v", CookieName, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	got, err := s.Parse(cookies[0].Value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSessions_ParseRejectsTampered(t *testing.T) {
	s := testSessions()
	other := NewSessions("different-secret", time.Hour, false)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	if err := other.Issue(c, Identity{ID: 7, Role: RoleDoctor}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Parse(rec.Result().Cookies()[0].Value); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestSessions_ParseRejectsExpired(t *testing.T) {
	s := NewSessions("test-secret", -time.Minute, false)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	if err := s.Issue(c, Identity{ID: 7, Role: RoleDoctor}); err != nil {
		t.Fatal(err)
	}

	if _, err := testSessions().Parse(rec.Result().Cookies()[0].Value); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestSessions_Clear(t *testing.T) {
	s := testSessions()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	s.Clear(c)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Errorf("expected expired cookie, got %v", cookies)
	}
}
