package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/estimmo/backend/internal/domain"
)

// CadastreService resolves a GPS point to its cadastral parcel
type CadastreService struct {
	baseURL    string
	httpClient *http.Client
}

// NewCadastreService creates a new cadastre service
func NewCadastreService(baseURL string) *CadastreService {
	return &CadastreService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// parcelFeatures represents the registry's GeoJSON parcel response
type parcelFeatures struct {
	Features []struct {
		Properties struct {
			Number       string  `json:"numero"`
			Section      string  `json:"section"`
			CommuneName  string  `json:"nom_com"`
			CommuneCode  string  `json:"code_com"`
			InseeCode    string  `json:"code_insee"`
			LandArea     float64 `json:"contenance"`
			BuiltArea    *float64 `json:"surface_batie"`
			BuildingYear *int    `json:"annee_construction"`
		} `json:"properties"`
	} `json:"features"`
}

// GetParcel fetches the parcel containing the point. Registry failures
// degrade to a fallback record instead of failing the estimation.
func (s *CadastreService) GetParcel(ctx context.Context, location domain.GeoPoint) (*domain.ParcelRecord, error) {
	if s.baseURL == "" {
		return s.fallbackParcel(), nil
	}

	point := fmt.Sprintf(`{"type":"Point","coordinates":[%f,%f]}`, location.Longitude, location.Latitude)
	reqURL := fmt.Sprintf("%s/cadastre/parcelle?geom=%s", s.baseURL, url.QueryEscape(point))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cadastre: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Fallback on network error
		return s.fallbackParcel(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fallbackParcel(), nil
	}

	var features parcelFeatures
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return nil, fmt.Errorf("cadastre: failed to decode response: %w", err)
	}
	if len(features.Features) == 0 {
		return s.fallbackParcel(), nil
	}

	props := features.Features[0].Properties
	return &domain.ParcelRecord{
		ParcelNumber:     props.Number,
		Section:          props.Section,
		Commune:          props.CommuneName,
		InseeCode:        props.InseeCode,
		LandAreaSqm:      props.LandArea,
		BuiltAreaSqm:     props.BuiltArea,
		ConstructionYear: props.BuildingYear,
		Source:           "cadastre registry",
	}, nil
}

// fallbackParcel marks the record so the engine widens the margin and
// appends the cadastre caveat.
func (s *CadastreService) fallbackParcel() *domain.ParcelRecord {
	return &domain.ParcelRecord{
		LandAreaSqm: 0,
		Source:      "fallback",
	}
}
