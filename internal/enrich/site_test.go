package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchSiteDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!doctype html><html><head>
			<title>fallback title</title>
			<meta property="og:title" content="Rosa Negra Tulum">
			<meta property="og:description" content=" Latin American dining on the beach. ">
			<meta property="og:image" content="https://cdn.example.com/hero.jpg">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	details, err := FetchSiteDetails(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FetchSiteDetails() failed: %v", err)
	}

	if details.Title != "Rosa Negra Tulum" {
		t.Errorf("title = %q", details.Title)
	}
	if details.Description != "Latin American dining on the beach." {
		t.Errorf("description = %q", details.Description)
	}
	if details.ImageURL != "https://cdn.example.com/hero.jpg" {
		t.Errorf("image = %q", details.ImageURL)
	}
}

func TestFetchSiteDetailsFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head>
			<title> Plain Title </title>
			<meta name="description" content="Plain description.">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	details, err := FetchSiteDetails(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FetchSiteDetails() failed: %v", err)
	}

	if details.Title != "Plain Title" {
		t.Errorf("title = %q, want <title> fallback", details.Title)
	}
	if details.Description != "Plain description." {
		t.Errorf("description = %q, want meta name fallback", details.Description)
	}
	if details.ImageURL != "" {
		t.Errorf("image = %q, want empty", details.ImageURL)
	}
}

func TestFetchSiteDetailsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := FetchSiteDetails(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("want error for 4xx response")
	}
}
