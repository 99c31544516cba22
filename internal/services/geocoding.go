package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dogwalk-tracker/internal/models"

	"github.com/tidwall/gjson"
)

var (
	ErrGeocodeNotFound = errors.New("location not found")
	ErrGeocodeFailed   = errors.New("geocoding request failed")
)

// GeocodingService resolves free-text place names via a Nominatim search endpoint
type GeocodingService struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewGeocodingService creates a geocoder. Nominatim's usage policy requires a
// descriptive User-Agent, so an empty one is replaced with the service name.
func NewGeocodingService(baseURL, userAgent string, timeout time.Duration) *GeocodingService {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if userAgent == "" {
		userAgent = "dogwalk-tracker/1.0"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GeocodingService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// ParseLatLng reads a literal "lat,lng" pair. ok is false when the text is not
// exactly two numbers inside WGS84 bounds.
func ParseLatLng(s string) (models.GeoPoint, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.GeoPoint{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.GeoPoint{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.GeoPoint{}, false
	}
	p := models.GeoPoint{Latitude: lat, Longitude: lng}
	return p, p.Valid()
}

// Resolve turns a start-location query into a point. Literal coordinates are
// used as-is; anything else goes to the geocoder.
func (s *GeocodingService) Resolve(ctx context.Context, query string) (models.GeoPoint, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.GeoPoint{}, fmt.Errorf("%w: empty query", ErrGeocodeNotFound)
	}
	if p, ok := ParseLatLng(query); ok {
		return p, nil
	}
	return s.Geocode(ctx, query)
}

// Geocode returns the first search hit for query
func (s *GeocodingService) Geocode(ctx context.Context, query string) (models.GeoPoint, error) {
	params := url.Values{}
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("q", query)

	fullURL := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())

	log.Printf("🌍 Geocoding: %s", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("%w: reading response: %v", ErrGeocodeFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.GeoPoint{}, fmt.Errorf("%w: status %d: %s", ErrGeocodeFailed, resp.StatusCode, string(body))
	}

	if !gjson.ValidBytes(body) {
		return models.GeoPoint{}, fmt.Errorf("%w: malformed geocoding response", ErrGeocodeNotFound)
	}

	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return models.GeoPoint{}, fmt.Errorf("%w: %s", ErrGeocodeNotFound, query)
	}

	// Nominatim encodes coordinates as strings
	lat, errLat := strconv.ParseFloat(first.Get("lat").String(), 64)
	lng, errLng := strconv.ParseFloat(first.Get("lon").String(), 64)
	if errLat != nil || errLng != nil {
		return models.GeoPoint{}, fmt.Errorf("%w: unparseable coordinates for %s", ErrGeocodeNotFound, query)
	}

	p := models.GeoPoint{Latitude: lat, Longitude: lng}
	log.Printf("   ✅ Found: %.6f, %.6f (%s)", lat, lng, first.Get("display_name").String())
	return p, nil
}
