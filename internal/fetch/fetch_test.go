package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/short" {
			http.Redirect(w, r, "/articles/full", http.StatusFound)
			return
		}
		w.Write([]byte("<html><title>ok</title></html>"))
	}))
	defer srv.Close()

	html, finalURL, err := New().Page(context.Background(), srv.URL+"/short")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if !strings.Contains(html, "<title>ok</title>") {
		t.Errorf("html = %q", html)
	}
	// The post-redirect URL is what relative links resolve against.
	if finalURL != srv.URL+"/articles/full" {
		t.Errorf("finalURL = %q, want %q", finalURL, srv.URL+"/articles/full")
	}
}

func TestPageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, _, err := New().Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for status 410")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("<p>saved page</p>"), 0644); err != nil {
		t.Fatal(err)
	}

	html, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if html != "<p>saved page</p>" {
		t.Errorf("html = %q", html)
	}

	if _, err := File(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for a missing file")
	}
}
