package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/estimmo/backend/internal/domain"
)

// EnergyService fetches the energy-performance diagnosis nearest a point
type EnergyService struct {
	baseURL    string
	geocodeURL string
	httpClient *http.Client
}

// NewEnergyService creates a new energy service
func NewEnergyService(baseURL, geocodeURL string) *EnergyService {
	return &EnergyService{
		baseURL:    baseURL,
		geocodeURL: geocodeURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type reverseGeocodeResponse struct {
	Features []struct {
		Properties struct {
			Postcode string `json:"postcode"`
			City     string `json:"city"`
		} `json:"properties"`
	} `json:"features"`
}

type energySearchResponse struct {
	Results []struct {
		EnergyClass string   `json:"classe_energie"`
		GESClass    string   `json:"classe_ges"`
		Consumption *float64 `json:"consommation_energie"`
		IssuedAt    string   `json:"date_etablissement"`
	} `json:"results"`
}

// GetEnergyRecord finds an energy rating filed near the point. The
// registry has no spatial index, so the point is reverse-geocoded to a
// postcode first. Any failure returns nil: an absent rating is a
// first-class degraded state, not an error.
func (s *EnergyService) GetEnergyRecord(ctx context.Context, location domain.GeoPoint) (*domain.EnergyRecord, error) {
	if s.baseURL == "" || s.geocodeURL == "" {
		return nil, nil
	}

	postcode, err := s.reverseGeocode(ctx, location)
	if err != nil || postcode == "" {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/lines?size=10&qs=code_postal:%s", s.baseURL, postcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("energy: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var search energySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("energy: failed to decode response: %w", err)
	}
	if len(search.Results) == 0 {
		return nil, nil
	}

	// Prefer the most recently issued diagnosis.
	best := search.Results[0]
	for _, r := range search.Results[1:] {
		if r.IssuedAt > best.IssuedAt {
			best = r
		}
	}

	class := domain.EnergyClass(best.EnergyClass)
	if !class.Known() {
		return nil, nil
	}

	return &domain.EnergyRecord{
		EnergyClass:       class,
		GESClass:          domain.EnergyClass(best.GESClass),
		ConsumptionKwhSqm: best.Consumption,
		IsAreaAverage:     true, // postcode match, not an address match
		Source:            "energy registry",
	}, nil
}

func (s *EnergyService) reverseGeocode(ctx context.Context, location domain.GeoPoint) (string, error) {
	reqURL := fmt.Sprintf("%s/reverse/?lat=%f&lon=%f", s.geocodeURL, location.Latitude, location.Longitude)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("energy: failed to create geocode request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("energy: geocode returned status %d", resp.StatusCode)
	}

	var geo reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return "", err
	}
	if len(geo.Features) == 0 {
		return "", nil
	}
	return geo.Features[0].Properties.Postcode, nil
}
