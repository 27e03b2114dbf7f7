package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSiteResponseBytes = 2 * 1024 * 1024

// SiteDetails carries the Open Graph metadata of a venue's own website.
// It backs up AI enrichment: when the model knows the website but not a
// usable photo or description, the site usually does.
type SiteDetails struct {
	Title       string
	Description string
	ImageURL    string
}

// FetchSiteDetails downloads a venue website and pulls its Open Graph
// title, description and image. Venue sites are real markup, unlike the
// search-result pages, so a DOM parse is the right tool here.
func FetchSiteDetails(ctx context.Context, client *http.Client, siteURL string) (SiteDetails, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return SiteDetails{}, err
	}
	req.Header.Set("User-Agent", userAgentDesktop)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en")

	resp, err := client.Do(req)
	if err != nil {
		return SiteDetails{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return SiteDetails{}, fmt.Errorf("site %s responded with status %d", siteURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxSiteResponseBytes))
	if err != nil {
		return SiteDetails{}, err
	}

	return parseSiteDetails(doc), nil
}

func parseSiteDetails(doc *goquery.Document) SiteDetails {
	var details SiteDetails

	details.Title = metaContent(doc, "og:title")
	if details.Title == "" {
		details.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	details.Description = metaContent(doc, "og:description")
	if details.Description == "" {
		details.Description, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
		details.Description = strings.TrimSpace(details.Description)
	}
	details.ImageURL = metaContent(doc, "og:image")

	return details
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}

const userAgentDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
