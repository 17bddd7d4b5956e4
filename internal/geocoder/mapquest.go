package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultMapQuestURL = "https://www.mapquestapi.com"

// MapQuest talks to the MapQuest geocoding v1 API.
type MapQuest struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewMapQuest creates a client. An empty baseURL uses the public endpoint.
func NewMapQuest(baseURL, apiKey string, logger *zap.Logger) *MapQuest {
	if baseURL == "" {
		baseURL = defaultMapQuestURL
	}
	return &MapQuest{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.Named("MapQuest"),
	}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mapQuestLocation `json:"locations"`
	} `json:"results"`
}

type mapQuestLocation struct {
	Street     string `json:"street"`
	AdminArea5 string `json:"adminArea5"` // city
	AdminArea3 string `json:"adminArea3"` // state
	AdminArea1 string `json:"adminArea1"` // country
	PostalCode string `json:"postalCode"`
	LatLng     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

func (m *MapQuest) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("key", m.apiKey)
	params.Set("location", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/geocoding/v1/address?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("Geocode request failed", zap.String("address", address), zap.Error(err))
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocode provider status %d: %s", body.Info.StatusCode, strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, ErrNoResult
	}

	loc := body.Results[0].Locations[0]
	// MapQuest answers unknown input with a country-level centroid and no city.
	if loc.AdminArea5 == "" && loc.PostalCode == "" && loc.Street == "" {
		return nil, ErrNoResult
	}
	return &Result{
		Latitude:         loc.LatLng.Lat,
		Longitude:        loc.LatLng.Lng,
		FormattedAddress: formatAddress(loc),
		Street:           loc.Street,
		City:             loc.AdminArea5,
		StateCode:        loc.AdminArea3,
		Zipcode:          loc.PostalCode,
		Country:          loc.AdminArea1,
	}, nil
}

func formatAddress(loc mapQuestLocation) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{loc.Street, loc.AdminArea5, strings.TrimSpace(loc.AdminArea3 + " " + loc.PostalCode), loc.AdminArea1} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
