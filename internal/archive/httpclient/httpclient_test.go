package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestGetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fdsnws/event/1/query" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "text" {
			t.Errorf("format = %s", r.URL.Query().Get("format"))
		}
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	q := url.Values{}
	q.Set("format", "text")
	body, err := New(srv.URL).GetText(context.Background(), "/fdsnws/event/1/query", q)
	if err != nil {
		t.Fatalf("GetText: %v", err)
	}
	if body != "hello" {
		t.Fatalf("body = %q", body)
	}
}

func TestGetTextStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 1000), http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetText(context.Background(), "/", nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", se.Code)
	}
	if len(se.Body) > 512 {
		t.Fatalf("body not truncated: %d bytes", len(se.Body))
	}
}

func TestGetTextNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	body, err := New(srv.URL).GetText(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("GetText: %v", err)
	}
	if body != "" {
		t.Fatalf("body = %q, want empty", body)
	}
}
