package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPhotosSuccess(t *testing.T) {
	s := New(Options{Headless: true})

	var requestedURL string
	s.newSession = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return ctx, func() {}
	}
	s.fetchHTML = func(_ context.Context, pageURL string) (string, error) {
		requestedURL = pageURL
		return `"https://example.com/one.jpg" "https://example.com/two.png"`, nil
	}

	photos, err := s.Photos(context.Background(), "Rosa Negra")
	if err != nil {
		t.Fatalf("Photos() failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("got %d photos, want 2", len(photos))
	}

	if photos[0].Reference != "scraped_0" || photos[1].Reference != "scraped_1" {
		t.Errorf("references = %q, %q", photos[0].Reference, photos[1].Reference)
	}
	if photos[0].URL != "https://example.com/one.jpg" {
		t.Errorf("url = %q", photos[0].URL)
	}
	if photos[0].AuthorName != "Google Maps Scrape" {
		t.Errorf("author = %q", photos[0].AuthorName)
	}
	if photos[0].Width != 800 || photos[0].Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", photos[0].Width, photos[0].Height)
	}

	if !strings.Contains(requestedURL, "Rosa+Negra+Tulum+photos") {
		t.Errorf("search url = %q, missing escaped query", requestedURL)
	}
	if !strings.Contains(requestedURL, "tbm=isch") {
		t.Errorf("search url = %q, not image mode", requestedURL)
	}
}

func TestPhotosNavigationFailureClosesSessionOnce(t *testing.T) {
	s := New(Options{Headless: true, NavTimeout: 50 * time.Millisecond})

	cause := errors.New("net::ERR_TIMED_OUT")
	closes := 0
	s.newSession = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return ctx, func() { closes++ }
	}
	s.fetchHTML = func(ctx context.Context, _ string) (string, error) {
		return "", cause
	}

	photos, err := s.Photos(context.Background(), "Cenote Calavera")
	if photos != nil {
		t.Errorf("photos = %v, want nil on failure", photos)
	}
	if err == nil {
		t.Fatal("want error on navigation failure")
	}

	var scrapeErr *ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("error type = %T, want *ScrapeError", err)
	}
	if scrapeErr.Query != "Cenote Calavera" {
		t.Errorf("query = %q", scrapeErr.Query)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error chain does not contain the cause: %v", err)
	}

	if closes != 1 {
		t.Errorf("session closed %d times, want exactly 1", closes)
	}
}

func TestPhotosEmptyResultIsNotAnError(t *testing.T) {
	s := New(Options{Headless: true})
	s.newSession = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return ctx, func() {}
	}
	s.fetchHTML = func(context.Context, string) (string, error) {
		return "<html><body>no images</body></html>", nil
	}

	photos, err := s.Photos(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("Photos() failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("photos = %v, want empty", photos)
	}
}

func TestPhotosHonorsMaxPhotos(t *testing.T) {
	s := New(Options{Headless: true, MaxPhotos: 2})
	s.newSession = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return ctx, func() {}
	}
	s.fetchHTML = func(context.Context, string) (string, error) {
		return `"https://example.com/a.jpg" "https://example.com/b.jpg" "https://example.com/c.jpg"`, nil
	}

	photos, err := s.Photos(context.Background(), "beach club")
	if err != nil {
		t.Fatalf("Photos() failed: %v", err)
	}
	if len(photos) != 2 {
		t.Errorf("got %d photos, want 2", len(photos))
	}
}

func TestNewFillsDefaults(t *testing.T) {
	s := New(Options{})
	if s.opts.NavTimeout != DefaultNavTimeout {
		t.Errorf("NavTimeout = %v, want %v", s.opts.NavTimeout, DefaultNavTimeout)
	}
	if s.opts.SettleDelay != DefaultSettleDelay {
		t.Errorf("SettleDelay = %v, want %v", s.opts.SettleDelay, DefaultSettleDelay)
	}
	if s.opts.MaxPhotos != MaxPhotos {
		t.Errorf("MaxPhotos = %d, want %d", s.opts.MaxPhotos, MaxPhotos)
	}
}
