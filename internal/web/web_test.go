package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sw := &StatusWriter{ResponseWriter: w, Code: 200}

	sw.WriteHeader(http.StatusNotFound)
	if sw.Code != http.StatusNotFound {
		t.Errorf("expected Code 404, got %d", sw.Code)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("expected recorded code 404, got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	sw2 := &StatusWriter{ResponseWriter: w2, Code: 200}
	_, _ = sw2.Write([]byte("ok"))
	if sw2.Code != 200 {
		t.Errorf("expected default code 200, got %d", sw2.Code)
	}
}

func TestStatusWriterHijackUnsupported(t *testing.T) {
	sw := &StatusWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := sw.Hijack(); err == nil {
		t.Error("recorder cannot be hijacked")
	}
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]string{"id": "Pos_Fun_0001"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type application/json, got %q", ct)
	}
	if w.Body.String() != `{"id":"Pos_Fun_0001"}`+"\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, errors.New("bad request"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	want := `{"code":"error","error":"bad request"}` + "\n"
	if w.Body.String() != want {
		t.Errorf("expected body %q, got %q", want, w.Body.String())
	}
}

func TestErrorCodeDetails(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorCode(w, http.StatusConflict, "busy", "run in progress", true, map[string]any{"active": 3})
	body := w.Body.String()
	for _, want := range []string{`"code":"busy"`, `"retryable":true`, `"details":{"active":3}`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		ID string `json:"id"`
	}
	r := httptest.NewRequest("POST", "/run", strings.NewReader(`{"id":"Pos_Fun_0001"}`))
	if err := DecodeJSON(r, &v); err != nil {
		t.Fatal(err)
	}
	if v.ID != "Pos_Fun_0001" {
		t.Errorf("got %q", v.ID)
	}

	r = httptest.NewRequest("POST", "/run", strings.NewReader(`{"nope":1}`))
	if err := DecodeJSON(r, &v); err == nil {
		t.Error("expected unknown field error")
	}

	r = httptest.NewRequest("POST", "/run", strings.NewReader(`{`))
	if err := DecodeJSON(r, &v); err == nil {
		t.Error("expected syntax error")
	}
}
