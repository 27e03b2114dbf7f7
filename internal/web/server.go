package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"tripboard/internal/config"
	"tripboard/internal/enrich"
	"tripboard/internal/export"
	"tripboard/internal/itinerary"
	appLog "tripboard/internal/log"
	"tripboard/internal/model"
)

// photosCacheTTL controls how long scraped photo sets are reused. A
// full scrape spins up a headless browser, so repeated lookups for the
// same venue within a session should never hit Google twice.
const photosCacheTTL = 15 * time.Minute

// PhotoScraper produces photo records for a free-text venue query.
// The production implementation lives in internal/scrape.
type PhotoScraper interface {
	Photos(ctx context.Context, query string) ([]model.PhotoRecord, error)
}

// Enricher fills in place details and reviews for a venue query.
// The production implementation lives in internal/enrich.
type Enricher interface {
	Enabled() bool
	PlaceDetails(ctx context.Context, query string) (model.PlaceDetails, error)
	Reviews(ctx context.Context, query string) ([]model.Review, error)
}

// Server provides the HTTP API for the itinerary board: schedule
// mutations, conflict reporting, photo scraping and AI enrichment.
type Server struct {
	cfg      *config.Config
	store    *itinerary.Store
	scraper  PhotoScraper
	enricher Enricher
	mux      *http.ServeMux

	// In-memory cache for scrape results keyed by normalized query.
	photosMu    sync.RWMutex
	photosCache map[string]*photosEntry
}

type photosEntry struct {
	photos    []model.PhotoRecord
	updatedAt time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, store *itinerary.Store, scraper PhotoScraper, enricher Enricher) *Server {
	s := &Server{
		cfg:         cfg,
		store:       store,
		scraper:     scraper,
		enricher:    enricher,
		mux:         http.NewServeMux(),
		photosCache: make(map[string]*photosEntry),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.PasswordHash == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	passwordHash := s.cfg.BasicAuth.PasswordHash

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays reachable without credentials.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		passMatch := false
		if ok && secureCompare(u, username) {
			var err error
			passMatch, err = VerifyPassword(p, passwordHash)
			if err != nil {
				appLog.Error("password verification failed", err)
				passMatch = false
			}
		}
		if !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="Tripboard", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/scrape-google-places", s.handleScrapePhotos)
	s.mux.HandleFunc("/api/itinerary", s.handleItinerary)
	s.mux.HandleFunc("/api/itinerary/move", s.handleMove)
	s.mux.HandleFunc("/api/itinerary/reorder", s.handleReorder)
	s.mux.HandleFunc("/api/itinerary/add", s.handleAdd)
	s.mux.HandleFunc("/api/itinerary/update", s.handleUpdate)
	s.mux.HandleFunc("/api/itinerary/remove", s.handleRemove)
	s.mux.HandleFunc("/api/conflicts", s.handleConflicts)
	s.mux.HandleFunc("/api/enrich", s.handleEnrich)
	s.mux.HandleFunc("/api/itinerary.ics", s.handleICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// scrapeRequest is the JSON request body for /api/scrape-google-places.
type scrapeRequest struct {
	Query string `json:"query"`
}

// scrapeResponse is the JSON response shape for a successful scrape.
type scrapeResponse struct {
	Photos []model.PhotoRecord `json:"photos"`
}

// scrapeErrorResponse carries the failure detail alongside the stable
// error message so the UI can surface both.
type scrapeErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// handleScrapePhotos runs the headless-browser photo scrape for a venue
// query. Results are cached per query; a cache hit never opens a browser.
//
// POST /api/scrape-google-places {"query": "Rosa Negra"}
func (s *Server) handleScrapePhotos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Query is missing")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query is missing")
		return
	}

	photos, err := s.cachedPhotos(r.Context(), query)
	if err != nil {
		appLog.Error("photo scrape failed", err, "query", query)
		writeJSON(w, http.StatusInternalServerError, scrapeErrorResponse{
			Error:   "Failed to scrape photos",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, scrapeResponse{Photos: photos})
}

// cachedPhotos returns scrape results for query, reusing a fresh cache
// entry when one exists. Only successful scrapes are cached, so a
// transient browser failure never poisons a query for the TTL window.
func (s *Server) cachedPhotos(ctx context.Context, query string) ([]model.PhotoRecord, error) {
	cacheKey := strings.ToLower(query)

	s.photosMu.RLock()
	entry := s.photosCache[cacheKey]
	s.photosMu.RUnlock()
	if entry != nil && time.Since(entry.updatedAt) < photosCacheTTL {
		return entry.photos, nil
	}

	appLog.Info("scraping photos", "query", query)
	photos, err := s.scraper.Photos(ctx, query)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []model.PhotoRecord{}
	}

	s.photosMu.Lock()
	s.photosCache[cacheKey] = &photosEntry{photos: photos, updatedAt: time.Now()}
	s.photosMu.Unlock()

	return photos, nil
}

// boardResponse is the JSON response shape shared by the itinerary
// read and mutation endpoints: the full board plus current conflicts.
type boardResponse struct {
	Days      []model.Day         `json:"days"`
	Conflicts map[string][]string `json:"conflicts"`
}

func (s *Server) board() boardResponse {
	return boardResponse{
		Days:      s.store.Snapshot(),
		Conflicts: s.store.Conflicts(),
	}
}

// handleItinerary returns the current board.
//
// GET /api/itinerary
func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.board())
}

type moveRequest struct {
	EventID     string `json:"event_id"`
	SourceDayID string `json:"source_day_id"`
	DestDayID   string `json:"dest_day_id"`
	DestIndex   int    `json:"dest_index"`
}

// handleMove moves an event between (or within) days.
//
// POST /api/itinerary/move
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.EventID == "" || req.SourceDayID == "" || req.DestDayID == "" {
		writeError(w, http.StatusBadRequest, "event_id, source_day_id and dest_day_id are required")
		return
	}
	s.store.Move(req.EventID, req.SourceDayID, req.DestDayID, req.DestIndex)
	writeJSON(w, http.StatusOK, s.board())
}

type reorderRequest struct {
	DayID      string `json:"day_id"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// handleReorder moves an event within a single day.
//
// POST /api/itinerary/reorder
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.DayID == "" {
		writeError(w, http.StatusBadRequest, "day_id is required")
		return
	}
	s.store.Reorder(req.DayID, req.StartIndex, req.EndIndex)
	writeJSON(w, http.StatusOK, s.board())
}

type addRequest struct {
	DayID string      `json:"day_id"`
	Event model.Event `json:"event"`
}

// handleAdd appends a new event to a day.
//
// POST /api/itinerary/add
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.DayID == "" || req.Event.ID == "" {
		writeError(w, http.StatusBadRequest, "day_id and event.id are required")
		return
	}
	s.store.Add(req.DayID, req.Event)
	writeJSON(w, http.StatusOK, s.board())
}

// handleUpdate replaces an event in place, matched by event.id.
//
// POST /api/itinerary/update
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.DayID == "" || req.Event.ID == "" {
		writeError(w, http.StatusBadRequest, "day_id and event.id are required")
		return
	}
	s.store.Update(req.DayID, req.Event)
	writeJSON(w, http.StatusOK, s.board())
}

type removeRequest struct {
	DayID   string `json:"day_id"`
	EventID string `json:"event_id"`
}

// handleRemove deletes an event from a day.
//
// POST /api/itinerary/remove
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.DayID == "" || req.EventID == "" {
		writeError(w, http.StatusBadRequest, "day_id and event_id are required")
		return
	}
	s.store.Remove(req.DayID, req.EventID)
	writeJSON(w, http.StatusOK, s.board())
}

// conflictsResponse is the JSON response shape for /api/conflicts.
type conflictsResponse struct {
	Conflicts map[string][]string `json:"conflicts"`
}

// handleConflicts returns flagged event IDs grouped by day.
//
// GET /api/conflicts?day=day-3
//   - day: optional, restricts the result to one day.
func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	conflicts := s.store.Conflicts()
	if dayID := r.URL.Query().Get("day"); dayID != "" {
		filtered := make(map[string][]string)
		if ids, ok := conflicts[dayID]; ok {
			filtered[dayID] = ids
		}
		conflicts = filtered
	}
	writeJSON(w, http.StatusOK, conflictsResponse{Conflicts: conflicts})
}

type enrichRequest struct {
	Query      string `json:"query"`
	WebsiteURL string `json:"website_url"`
}

type enrichResponse struct {
	Details model.PlaceDetails `json:"details"`
	Reviews []model.Review     `json:"reviews"`
}

// handleEnrich asks the AI backend for place details and reviews. The
// first scraped photo overrides whatever image the model suggested; a
// still-missing image falls back to Open Graph metadata when the
// caller supplies a website URL.
//
// POST /api/enrich {"query": "Cenote Calavera", "website_url": "..."}
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if !decodePost(w, r, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query is missing")
		return
	}

	ctx := r.Context()

	details, err := s.enricher.PlaceDetails(ctx, query)
	if err != nil {
		appLog.Error("enrichment failed", err, "query", query)
		writeError(w, http.StatusInternalServerError, "Failed to enrich place")
		return
	}

	reviews, err := s.enricher.Reviews(ctx, query)
	if err != nil {
		appLog.Error("reviews fetch failed", err, "query", query)
		reviews = nil
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	// The model's image suggestions are often dead links; a freshly
	// scraped photo replaces them whenever the scrape yields one.
	if photos, err := s.cachedPhotos(ctx, query); err == nil && len(photos) > 0 {
		details.ImageURL = photos[0].URL
	}

	if req.WebsiteURL != "" && (details.ImageURL == "" || details.Description == "") {
		site, err := enrich.FetchSiteDetails(ctx, nil, req.WebsiteURL)
		if err != nil {
			appLog.Debug("site metadata fetch failed", "url", req.WebsiteURL, "error", err.Error())
		} else {
			if details.ImageURL == "" {
				details.ImageURL = site.ImageURL
			}
			if details.Description == "" {
				details.Description = site.Description
			}
			if details.WebsiteURL == "" {
				details.WebsiteURL = req.WebsiteURL
			}
		}
	}

	writeJSON(w, http.StatusOK, enrichResponse{Details: details, Reviews: reviews})
}

// handleICS serves the itinerary as an iCalendar download.
//
// GET /api/itinerary.ics
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tripStart, err := s.cfg.TripStartDate()
	if err != nil {
		appLog.Error("invalid trip start date", err)
		writeError(w, http.StatusInternalServerError, "invalid trip start date")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.ICS(s.store.Snapshot(), tripStart)))
}

// decodePost enforces POST and decodes the JSON body into dst. On
// failure it writes the error response and returns false.
func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
