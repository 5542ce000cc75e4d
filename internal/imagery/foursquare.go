// Package imagery resolves location photos for quiz questions. Lookups are
// best effort: a question ships without an image sooner than it waits on a
// slow photo API.
package imagery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultFoursquareURL = "https://api.foursquare.com/v3"
	lookupTimeout        = 5 * time.Second

	// photoSize keeps responses small for faster client-side loading.
	photoSize = "300x300"
)

// ImageFinder resolves a photo URL for a location query. An empty string
// with a nil error means "no image available".
type ImageFinder interface {
	FindImage(ctx context.Context, query string) (string, error)
}

// Foursquare looks up place photos through the Foursquare Places API.
type Foursquare struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewFoursquare creates a Foursquare image finder.
func NewFoursquare(apiKey string, log zerolog.Logger) *Foursquare {
	return &Foursquare{
		apiKey:  apiKey,
		baseURL: defaultFoursquareURL,
		client:  &http.Client{Timeout: lookupTimeout},
		log:     log.With().Str("component", "foursquare").Logger(),
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (f *Foursquare) WithBaseURL(url string) *Foursquare {
	f.baseURL = url
	return f
}

// Enabled reports whether an API key is configured.
func (f *Foursquare) Enabled() bool {
	return f.apiKey != ""
}

type placeSearchResponse struct {
	Results []struct {
		FsqID string `json:"fsq_id"`
	} `json:"results"`
}

type placePhoto struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// FindImage searches for "<query> landmark location" and returns the first
// photo of the first matching place. Every failure path returns an empty URL
// and logs at debug level — callers never fail a question over a photo.
func (f *Foursquare) FindImage(ctx context.Context, query string) (string, error) {
	if !f.Enabled() {
		return "", nil
	}

	searchURL := fmt.Sprintf("%s/places/search?query=%s&limit=1",
		f.baseURL, url.QueryEscape(query+" landmark location"))

	var search placeSearchResponse
	if err := f.getJSON(ctx, searchURL, &search); err != nil {
		f.log.Debug().Err(err).Str("query", query).Msg("Place search failed")
		return "", nil
	}
	if len(search.Results) == 0 {
		return "", nil
	}

	photosURL := fmt.Sprintf("%s/places/%s/photos?limit=1", f.baseURL, search.Results[0].FsqID)

	var photos []placePhoto
	if err := f.getJSON(ctx, photosURL, &photos); err != nil {
		f.log.Debug().Err(err).Str("query", query).Msg("Photo lookup failed")
		return "", nil
	}
	if len(photos) == 0 {
		return "", nil
	}

	return photos[0].Prefix + photoSize + photos[0].Suffix, nil
}

func (f *Foursquare) getJSON(ctx context.Context, rawURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("call foursquare: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("foursquare status %d: %s", resp.StatusCode, body)
	}

	return json.Unmarshal(body, dst)
}

// Disabled is an ImageFinder that never returns an image. Used when no
// Foursquare API key is configured.
type Disabled struct{}

func (Disabled) FindImage(context.Context, string) (string, error) {
	return "", nil
}
