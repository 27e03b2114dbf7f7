package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appLog "tripboard/internal/log"
	"tripboard/internal/model"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel    = "gemini-2.5-flash"

	requestTimeout = 30 * time.Second
)

// Client talks to the text-generation API that fills in venue metadata
// and reviews. Without an API key the client is disabled and returns
// placeholder data instead of failing, so the board stays usable
// offline.
type Client struct {
	httpClient *http.Client
	endpoint   string
	modelName  string
	apiKey     string
}

// NewClient builds a Client. Empty model/endpoint fall back to the
// defaults; an empty apiKey produces a disabled client.
func NewClient(apiKey, modelName, endpoint string) *Client {
	if modelName == "" {
		modelName = DefaultModel
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		modelName:  modelName,
		apiKey:     apiKey,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// PlaceDetails asks the model for structured venue metadata. A model
// response that is not valid JSON after fence-stripping is recovered
// locally: the caller gets minimal details (just the title) and a nil
// error, never a hard failure.
func (c *Client) PlaceDetails(ctx context.Context, query string) (model.PlaceDetails, error) {
	if !c.Enabled() {
		appLog.Info("enrichment disabled, returning placeholder", "query", query)
		return placeholderDetails(query), nil
	}

	text, err := c.generate(ctx, placePrompt(query))
	if err != nil {
		return model.PlaceDetails{}, fmt.Errorf("enrich: place details for %q: %w", query, err)
	}

	var details model.PlaceDetails
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &details); err != nil {
		appLog.Error("enrichment response is not valid JSON, using fallback", err, "query", query)
		return model.PlaceDetails{Title: query}, nil
	}

	finishDetails(&details, query)
	return details, nil
}

// Reviews asks the model for five venue reviews. Malformed responses
// recover to an empty list.
func (c *Client) Reviews(ctx context.Context, query string) ([]model.Review, error) {
	if !c.Enabled() {
		return nil, nil
	}

	text, err := c.generate(ctx, reviewsPrompt(query))
	if err != nil {
		return nil, fmt.Errorf("enrich: reviews for %q: %w", query, err)
	}

	var reviews []model.Review
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &reviews); err != nil {
		appLog.Error("review response is not valid JSON, dropping", err, "query", query)
		return nil, nil
	}
	return reviews, nil
}

// finishDetails applies the deterministic post-processing the raw model
// output needs: the Maps URL is always rebuilt from the title so
// hallucinated coordinates can't leak into navigation, and the WhatsApp
// number mirrors the phone number when the model left it out.
func finishDetails(details *model.PlaceDetails, query string) {
	title := details.Title
	if title == "" {
		title = query
	}
	details.GoogleMapsURL = "https://www.google.com/maps/search/?api=1&query=" +
		url.QueryEscape(title+" Tulum")

	if details.ContactInfo != nil &&
		details.ContactInfo.Phone != "" && details.ContactInfo.WhatsApp == "" {
		details.ContactInfo.WhatsApp = details.ContactInfo.Phone
	}
}

func placeholderDetails(query string) model.PlaceDetails {
	title := query
	if i := strings.LastIndex(title, "-"); i >= 0 {
		title = strings.TrimSpace(title[i+1:])
	}
	if title == "" {
		title = query
	}
	return model.PlaceDetails{
		Title:       title,
		Tags:        []string{"Activity", "Explore"},
		Description: fmt.Sprintf("Auto-generated details for %s. Configure an AI API key to enable live enrichment.", query),
	}
}

// Wire shapes for the generateContent endpoint.

type generateRequest struct {
	Contents         []genContent `json:"contents"`
	Tools            []genTool    `json:"tools,omitempty"`
	GenerationConfig genConfig    `json:"generationConfig"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genTool struct {
	GoogleSearch struct{} `json:"googleSearch"`
}

type genConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate runs one prompt through the model and returns the raw text
// of the first candidate.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents:         []genContent{{Parts: []genPart{{Text: prompt}}}},
		Tools:            []genTool{{}},
		GenerationConfig: genConfig{Temperature: 0.1},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.modelName, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty candidate response")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

func placePrompt(query string) string {
	return fmt.Sprintf(`Search Google for detailed travel information about %q in Tulum or the specified location.
Extract and return the following details as a raw JSON object. Do not wrap in markdown tags like `+"```json"+`.

Schema:
{
  "title": "Exact name of the place",
  "location": "Neighborhood or specific area (e.g., 'Tulum Beach', 'Aldea Zama')",
  "time": "Best suggested time to visit (e.g., '9:00 PM', '10:00 AM')",
  "description": "A compelling 1-2 sentence description",
  "tags": ["Activity", "Dining", "Nightlife", "Nature"],
  "websiteUrl": "Official website URL or Instagram link if available",
  "googleMapsUrl": "A strict Google Maps search URL following this exact format: https://www.google.com/maps/search/?api=1&query=[ENCODED_PLACE_NAME_AND_LOCATION]",
  "imageUrl": "A direct URL to a high-quality, real image of this place (e.g. ending in .jpg or .png)",
  "aiFactsAndTips": "One interesting fact, dress code, or tip for travelers",
  "coordinates": {"lat": "number (exact latitude)", "lng": "number (exact longitude)"},
  "contactInfo": {
    "phone": "EXTRACT THE EXACT PHONE NUMBER FROM THE GOOGLE SEARCH PANEL. DO NOT HALLUCINATE.",
    "email": "Email address, if available",
    "whatsapp": "WhatsApp number, if available"
  }
}`, query)
}

func reviewsPrompt(query string) string {
	return fmt.Sprintf(`Find and return exactly 5 real, authentic Google Reviews for %q.
Format the response as a valid JSON array of objects. Do NOT use markdown code blocks. Just the raw JSON.
Each object MUST have:
- "author_name" (string)
- "rating" (number between 1 and 5)
- "text" (string, the review itself, at least 2 sentences)
- "relative_time_description" (string, e.g. "2 months ago")
- "profile_photo_url" (string, a stable avatar URL seeded by the author name if no real one is available)`, query)
}
