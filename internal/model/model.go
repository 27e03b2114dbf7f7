package model

// Day is a single slot in the fixed 8-day itinerary grid. Event order is
// meaningful: it is both the display order and the order the conflict
// scan falls back to for events sharing the same start time.
type Day struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Events []Event `json:"events"`
}

// Event is a bookable activity or venue placed into exactly one Day.
// Time and Location are free text entered by the user (or filled in by
// enrichment); both may be empty, in which case the event is treated as
// unscheduled and never participates in conflicts.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Time        string   `json:"time,omitempty"`
	Location    string   `json:"location,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	ContactInfo   *ContactInfo   `json:"contact_info,omitempty"`
	Media         []Media        `json:"media,omitempty"`
	HiddenDetails *HiddenDetails `json:"hidden_details,omitempty"`
	Coordinates   *Coordinates   `json:"coordinates,omitempty"`

	GoldKey       bool   `json:"is_gold_key,omitempty"`
	WebsiteURL    string `json:"website_url,omitempty"`
	GoogleMapsURL string `json:"google_maps_url,omitempty"`
	PlaceID       string `json:"place_id,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	FactsAndTips  string `json:"ai_facts_and_tips,omitempty"`
}

// ContactInfo holds venue contact details surfaced by enrichment.
type ContactInfo struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// Media is an attached image/video reference on an event card.
type Media struct {
	Type string `json:"type"` // "image", "video" or "youtube"
	URL  string `json:"url"`
}

// HiddenDetails are booking internals not shown on the card face.
type HiddenDetails struct {
	ConfirmationNumber string `json:"confirmation_number,omitempty"`
	PDFURL             string `json:"pdf_url,omitempty"`
	Notes              string `json:"notes,omitempty"`
	Address            string `json:"address,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PhotoRecord is a normalized scrape result, shaped like a Google Places
// photo payload so existing card UIs can consume it unchanged.
type PhotoRecord struct {
	Reference  string `json:"photo_reference"`
	URL        string `json:"url"`
	AuthorName string `json:"author_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Review is a single venue review returned by the enrichment service.
type Review struct {
	AuthorName      string  `json:"author_name"`
	Rating          float64 `json:"rating"`
	Text            string  `json:"text"`
	RelativeTime    string  `json:"relative_time_description"`
	ProfilePhotoURL string  `json:"profile_photo_url"`
}

// PlaceDetails is the partial event the AI enrichment call fills in.
// Field names on the wire follow the fixed prompt schema; anything the
// model could not determine is left zero.
type PlaceDetails struct {
	Title         string       `json:"title"`
	Location      string       `json:"location"`
	Time          string       `json:"time"`
	Description   string       `json:"description"`
	Tags          []string     `json:"tags"`
	WebsiteURL    string       `json:"websiteUrl"`
	GoogleMapsURL string       `json:"googleMapsUrl"`
	ImageURL      string       `json:"imageUrl"`
	FactsAndTips  string       `json:"aiFactsAndTips"`
	Coordinates   *Coordinates `json:"coordinates"`
	ContactInfo   *ContactInfo `json:"contactInfo"`
}

// IsZero reports whether enrichment produced nothing usable.
func (d PlaceDetails) IsZero() bool {
	return d.Title == "" && d.Location == "" && d.Description == "" &&
		d.ImageURL == "" && len(d.Tags) == 0 && d.ContactInfo == nil
}
