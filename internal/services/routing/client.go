package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"dogwalk-tracker/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrRequestFailed covers transport errors and non-2xx responses
	ErrRequestFailed = errors.New("routing request failed")
	// ErrResponseEmpty is returned when the response carries no usable route feature
	ErrResponseEmpty = errors.New("routing response contained no route")
)

// AvoidFeatures are excluded from every generated walking route
var AvoidFeatures = []string{"steps", "fords"}

// Client talks to an openrouteservice-compatible directions API
type Client struct {
	baseURL    string
	apiKey     string
	profile    string
	httpClient *http.Client
}

// Options configures a Client. Zero values fall back to the public service defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	Profile    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// RoundTripRequest describes a circular route starting and ending at Start
type RoundTripRequest struct {
	Start        models.GeoPoint
	LengthMeters float64
	Points       int
	Seed         int64
	Preference   string // "recommended" or "shortest"
}

type directionsBody struct {
	Coordinates [][2]float64       `json:"coordinates"`
	Preference  string             `json:"preference,omitempty"`
	Options     *directionsOptions `json:"options,omitempty"`
}

type directionsOptions struct {
	RoundTrip     *roundTripOptions `json:"round_trip,omitempty"`
	AvoidFeatures []string          `json:"avoid_features,omitempty"`
}

type roundTripOptions struct {
	Length float64 `json:"length"`
	Points int     `json:"points"`
	Seed   int64   `json:"seed"`
}

// NewClient creates a routing client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openrouteservice.org"
	}
	if opts.Profile == "" {
		opts.Profile = "foot-walking"
	}
	if opts.APIKey == "" {
		log.Printf("⚠️  ROUTING_API_KEY not set - route generation and matching will fail over to freehand")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		profile:    opts.Profile,
		httpClient: httpClient,
	}
}

// RoundTrip requests a circular route of approximately req.LengthMeters
func (c *Client) RoundTrip(ctx context.Context, req RoundTripRequest) (models.Path, error) {
	body := directionsBody{
		Coordinates: [][2]float64{req.Start.LonLat()},
		Preference:  req.Preference,
		Options: &directionsOptions{
			RoundTrip: &roundTripOptions{
				Length: req.LengthMeters,
				Points: req.Points,
				Seed:   req.Seed,
			},
			AvoidFeatures: AvoidFeatures,
		},
	}

	log.Printf("🔁 [ROUTING] Round trip from (%.6f, %.6f) length=%.0fm points=%d seed=%d pref=%s",
		req.Start.Latitude, req.Start.Longitude, req.LengthMeters, req.Points, req.Seed, req.Preference)

	return c.post(ctx, body)
}

// Directions requests a route passing through the waypoints in order
func (c *Client) Directions(ctx context.Context, waypoints models.Path) (models.Path, error) {
	coords := make([][2]float64, len(waypoints))
	for i, p := range waypoints {
		coords[i] = p.LonLat()
	}

	log.Printf("🛣️  [ROUTING] Directions through %d waypoints", len(waypoints))

	return c.post(ctx, directionsBody{Coordinates: coords})
}

func (c *Client) post(ctx context.Context, body directionsBody) (models.Path, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrRequestFailed, err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/geo+json, application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("   ❌ Routing API error (%d): %s", resp.StatusCode, string(raw))
		return nil, fmt.Errorf("%w: API returned status %d", ErrRequestFailed, resp.StatusCode)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrResponseEmpty, err)
	}
	if len(fc.Features) == 0 || fc.Features[0] == nil {
		return nil, ErrResponseEmpty
	}

	path := lineFromGeometry(fc.Features[0].Geometry)
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: unsupported geometry", ErrResponseEmpty)
	}

	log.Printf("   ✅ Route received with %d points", len(path))
	return path, nil
}

func lineFromGeometry(g orb.Geometry) models.Path {
	switch geom := g.(type) {
	case orb.LineString:
		return models.PathFromLineString(geom)
	case orb.MultiLineString:
		var out models.Path
		for _, ls := range geom {
			out = append(out, models.PathFromLineString(ls)...)
		}
		return out
	}
	return nil
}
