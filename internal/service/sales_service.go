package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/estimmo/backend/internal/domain"
)

// Comparable-sales search defaults: half a kilometer around the subject
// over the last twelve months.
const (
	defaultSalesRadiusMeters = 500
	defaultSalesMonths       = 12
)

// SalesService fetches comparable-sale transactions around a point
type SalesService struct {
	baseURL    string
	httpClient *http.Client
}

// NewSalesService creates a new sales service
func NewSalesService(baseURL string) *SalesService {
	return &SalesService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// salesFeatures represents the registry's GeoJSON transaction response
type salesFeatures struct {
	Features []struct {
		Properties struct {
			Date         string   `json:"date_mutation"`
			Price        float64  `json:"valeur_fonciere"`
			LivingArea   float64  `json:"surface_reelle_bati"`
			PropertyType string   `json:"type_local"`
			Address      string   `json:"adresse"`
			Latitude     *float64 `json:"lat"`
			Longitude    *float64 `json:"lon"`
		} `json:"properties"`
	} `json:"features"`
}

// GetTransactions fetches the sales recorded around the point within
// the given radius and recency window. An unreachable registry returns
// an empty list: zero transactions is a degraded-data condition the
// engine already knows how to absorb.
func (s *SalesService) GetTransactions(ctx context.Context, location domain.GeoPoint, radiusMeters float64, months int) ([]domain.TransactionRecord, error) {
	if radiusMeters <= 0 {
		radiusMeters = defaultSalesRadiusMeters
	}
	if months <= 0 {
		months = defaultSalesMonths
	}
	if s.baseURL == "" {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/dvf?lat=%f&lon=%f&dist=%d",
		s.baseURL, location.Latitude, location.Longitude, int(radiusMeters))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sales: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var features salesFeatures
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return nil, fmt.Errorf("sales: failed to decode response: %w", err)
	}

	cutoff := time.Now().AddDate(0, -months, 0)

	var txns []domain.TransactionRecord
	for _, f := range features.Features {
		p := f.Properties
		date := parseSaleDate(p.Date)
		if date.Before(cutoff) {
			continue
		}

		t := domain.TransactionRecord{
			Date:          date,
			Price:         p.Price,
			LivingAreaSqm: p.LivingArea,
			PropertyType:  p.PropertyType,
			Address:       p.Address,
		}
		if p.Latitude != nil && p.Longitude != nil {
			salePoint := domain.GeoPoint{Latitude: *p.Latitude, Longitude: *p.Longitude}
			t.DistanceMeters = location.DistanceMeters(salePoint)
			if t.DistanceMeters > radiusMeters {
				continue
			}
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// SectorDefaultPrice returns the fallback price per square meter for
// the area, from a coarse national price map. Used as the base price
// when no comparable sale is available.
func (s *SalesService) SectorDefaultPrice(location domain.GeoPoint) float64 {
	lat, lon := location.Latitude, location.Longitude

	switch {
	// Paris and inner suburbs
	case lat >= 48.8 && lat <= 48.95 && lon >= 2.2 && lon <= 2.5:
		return 10500
	// Greater Paris area
	case lat >= 48.5 && lat <= 49.2 && lon >= 1.8 && lon <= 3.0:
		return 4500
	// Lyon
	case lat >= 45.7 && lat <= 45.8 && lon >= 4.8 && lon <= 4.9:
		return 5000
	// Marseille
	case lat >= 43.2 && lat <= 43.4 && lon >= 5.3 && lon <= 5.5:
		return 3500
	// Bordeaux
	case lat >= 44.8 && lat <= 44.9 && lon >= -0.6 && lon <= -0.5:
		return 4500
	// Riviera coast
	case lat >= 43.5 && lat <= 43.8 && lon >= 6.8 && lon <= 7.5:
		return 6000
	// Other metropolitan areas
	case lat >= 43.0 && lat <= 50.0 && lon >= -2.0 && lon <= 8.0:
		return 3000
	default:
		return 1800
	}
}

// parseSaleDate accepts the registry's date formats; unparseable dates
// sort before any recency cutoff.
func parseSaleDate(raw string) time.Time {
	if len(raw) > 10 {
		raw = raw[:10]
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
