package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	appLog "tripboard/internal/log"
	"tripboard/internal/model"
)

// Default session parameters. Navigation waits for DOM content only:
// Google's image grids lazy-load forever, so waiting for network idle
// would always hit the timeout.
const (
	DefaultNavTimeout  = 30 * time.Second
	DefaultSettleDelay = 3 * time.Second

	viewportWidth  = 1280
	viewportHeight = 800

	authorLabel = "Google Maps Scrape"

	// A realistic desktop user agent; the default headless UA is an
	// instant bot-detection giveaway.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ScrapeError wraps every failure mode of a scrape session (browser
// launch, navigation timeout, extraction plumbing) into one error kind
// carrying the original cause.
type ScrapeError struct {
	Query string
	Err   error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %q: %v", e.Query, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// Options configures a Scraper. Zero values fall back to the defaults
// above; Headless defaults to true via New.
type Options struct {
	Headless    bool
	NavTimeout  time.Duration
	SettleDelay time.Duration

	// MaxPhotos limits how many photos one request returns, at most
	// the extraction cap.
	MaxPhotos int
}

// Scraper drives one headless Chromium session per photo request:
// launch, navigate, settle, grab HTML, extract, close. Sessions are
// never pooled or shared; owning the browser end-to-end keeps the
// cleanup guarantee trivial even when navigation blows up.
type Scraper struct {
	opts Options

	// Session plumbing is injectable so tests can simulate navigation
	// failures without a browser and still observe the cleanup path.
	newSession func(ctx context.Context) (context.Context, context.CancelFunc)
	fetchHTML  func(ctx context.Context, pageURL string) (string, error)
}

// New constructs a Scraper with sane defaults filled in.
func New(opts Options) *Scraper {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.MaxPhotos <= 0 || opts.MaxPhotos > MaxPhotos {
		opts.MaxPhotos = MaxPhotos
	}
	s := &Scraper{opts: opts}
	s.newSession = s.startSession
	s.fetchHTML = s.renderHTML
	return s
}

// Photos scrapes Google image search for venue photos matching query.
// Every failure surfaces as a *ScrapeError; the browser session is
// closed on all exit paths. Zero results with a nil error is a valid
// outcome the caller should treat as "no live photos".
func (s *Scraper) Photos(ctx context.Context, query string) ([]model.PhotoRecord, error) {
	searchURL := searchPageURL(query)
	appLog.Info("scrape start", "query", query, "url", searchURL)

	sessionCtx, closeSession := s.newSession(ctx)
	defer closeSession()

	navCtx, cancelNav := context.WithTimeout(sessionCtx, s.opts.NavTimeout)
	defer cancelNav()

	html, err := s.fetchHTML(navCtx, searchURL)
	if err != nil {
		appLog.Error("scrape session failed", err, "query", query)
		return nil, &ScrapeError{Query: query, Err: err}
	}

	urls := ExtractPhotoURLs(html)
	if len(urls) > s.opts.MaxPhotos {
		urls = urls[:s.opts.MaxPhotos]
	}
	appLog.Info("scrape done", "query", query, "photo_count", len(urls))

	photos := make([]model.PhotoRecord, 0, len(urls))
	for i, u := range urls {
		photos = append(photos, model.PhotoRecord{
			Reference:  fmt.Sprintf("scraped_%d", i),
			URL:        u,
			AuthorName: authorLabel,
			Width:      800,
			Height:     600,
		})
	}
	return photos, nil
}

// searchPageURL builds the image-mode search URL for a venue query.
func searchPageURL(query string) string {
	return "https://www.google.com/search?q=" +
		url.QueryEscape(query+" Tulum photos") + "&tbm=isch"
}

// startSession launches an isolated Chromium instance for one scrape.
// The returned cancel tears down both the browser context and its
// allocator.
func (s *Scraper) startSession(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// renderHTML navigates to pageURL, lets the image grid scripts paint,
// and returns the full rendered document.
func (s *Scraper) renderHTML(ctx context.Context, pageURL string) (string, error) {
	var html string
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(s.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", err
	}
	return html, nil
}
