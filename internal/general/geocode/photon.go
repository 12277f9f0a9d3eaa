// Package geocode resolves free-text destinations and reverse-geocodes
// positions against a Photon (Komoot) instance.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
	"city-guide/internal/general/logger"
	"city-guide/internal/ports"
)

// photonResponse mirrors the GeoJSON FeatureCollection Photon returns.
type photonResponse struct {
	Features []struct {
		Geometry struct {
			// [lon, lat]
			Coordinates [2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name     string `json:"name"`
			Street   string `json:"street"`
			City     string `json:"city"`
			Country  string `json:"country"`
			Postcode string `json:"postcode"`
		} `json:"properties"`
	} `json:"features"`
}

// PhotonClient is an HTTP client for the Photon geocoding API.
type PhotonClient struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewPhotonClient constructs a geocoder client.
func NewPhotonClient(baseURL string, timeout time.Duration, log *logger.Logger) *PhotonClient {
	return &PhotonClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ ports.Geocoder = (*PhotonClient)(nil)

// Geocode resolves a free-text query to a position and place.
func (c *PhotonClient) Geocode(ctx context.Context, query string) (geo.Position, ports.Place, error) {
	if strings.TrimSpace(query) == "" {
		return geo.Position{}, ports.Place{}, nav.ErrUnresolvedDestination
	}

	requestURL := fmt.Sprintf("%s/api?q=%s&limit=1", c.baseURL, url.QueryEscape(query))

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return geo.Position{}, ports.Place{}, err
	}

	if len(resp.Features) == 0 {
		c.log.Info(ctx, "geocode_no_results", "Geocoder returned no results", map[string]any{"query": query})
		return geo.Position{}, ports.Place{}, nav.ErrUnresolvedDestination
	}

	f := resp.Features[0]
	pos := geo.Position{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]}
	if err := pos.Validate(); err != nil {
		return geo.Position{}, ports.Place{}, fmt.Errorf("geocoder returned invalid position: %w", err)
	}

	return pos, placeFromProps(f.Properties.Name, f.Properties.Street, f.Properties.City, f.Properties.Country, f.Properties.Postcode), nil
}

// Reverse resolves a position to the closest known place.
func (c *PhotonClient) Reverse(ctx context.Context, pos geo.Position) (ports.Place, error) {
	if err := pos.Validate(); err != nil {
		return ports.Place{}, err
	}

	requestURL := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&limit=1", c.baseURL, pos.Lat, pos.Lon)

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return ports.Place{}, err
	}

	if len(resp.Features) == 0 {
		return ports.Place{}, nav.ErrUnresolvedDestination
	}

	p := resp.Features[0].Properties
	return placeFromProps(p.Name, p.Street, p.City, p.Country, p.Postcode), nil
}

func (c *PhotonClient) get(ctx context.Context, requestURL string) (*photonResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocoder request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(ctx, "geocoder_request_failed", "Failed to reach geocoder", err, nil)
		return nil, fmt.Errorf("geocoder request failed: %w: %w", nav.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error(ctx, "geocoder_bad_status", "Bad response from geocoder",
			fmt.Errorf("status=%d", resp.StatusCode),
			map[string]any{"body": string(body)})
		return nil, fmt.Errorf("geocoder returned status %d: %w", resp.StatusCode, nav.ErrProviderUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read geocoder response: %w", err)
	}

	var parsed photonResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse geocoder response: %w", err)
	}

	return &parsed, nil
}

func placeFromProps(name, street, city, country, postcode string) ports.Place {
	return ports.Place{
		Name:     name,
		Street:   street,
		City:     city,
		Country:  country,
		Postcode: postcode,
	}
}
