package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/internal/pricing"
	"github.com/estimmo/backend/internal/vision"
)

// perSourceTimeout bounds each registry fetch. A slow source degrades
// the estimate, it does not stall the request.
const perSourceTimeout = 8 * time.Second

// EstimateService orchestrates one estimation: it gathers the four
// source signals and hands them to the fusion engine
type EstimateService struct {
	cadastreSvc *CadastreService
	salesSvc    *SalesService
	energySvc   *EnergyService
	analyzer    *vision.Analyzer
	engine      *pricing.Engine
	repo        EstimationRepository

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// NewEstimateService creates a new estimate service
func NewEstimateService(
	cadastreSvc *CadastreService,
	salesSvc *SalesService,
	energySvc *EnergyService,
	analyzer *vision.Analyzer,
	engine *pricing.Engine,
	repo EstimationRepository,
) *EstimateService {
	return &EstimateService{
		cadastreSvc: cadastreSvc,
		salesSvc:    salesSvc,
		energySvc:   energySvc,
		analyzer:    analyzer,
		engine:      engine,
		repo:        repo,
	}
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *EstimateService) WaitBackground() {
	s.wgBg.Wait()
}

// Estimate fuses the cadastral parcel, the comparable sales, the energy
// rating, and the photo analysis into one estimation. The three
// registry fetches run concurrently with per-source timeouts; a failed
// or timed-out source degrades the estimate rather than aborting it.
// Only an invalid location or zero usable images abort the request.
func (s *EstimateService) Estimate(ctx context.Context, location domain.GeoPoint, images []domain.ImageSample) (domain.EstimationResult, error) {
	if location.IsZero() || !location.Valid() {
		return domain.EstimationResult{}, domain.ErrInvalidLocation
	}
	if len(images) == 0 {
		return domain.EstimationResult{}, domain.ErrNoImages
	}

	var (
		parcel *domain.ParcelRecord
		txns   []domain.TransactionRecord
		energy *domain.EnergyRecord
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
	)

	// Fetch the cadastral parcel concurrently
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, perSourceTimeout)
		defer cancel()
		p, err := s.cadastreSvc.GetParcel(fetchCtx, location)
		mu.Lock()
		if err != nil {
			errs = append(errs, err)
		} else {
			parcel = p
		}
		mu.Unlock()
	}()

	// Fetch the comparable sales concurrently
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, perSourceTimeout)
		defer cancel()
		t, err := s.salesSvc.GetTransactions(fetchCtx, location, defaultSalesRadiusMeters, defaultSalesMonths)
		mu.Lock()
		if err != nil {
			errs = append(errs, err)
		} else {
			txns = t
		}
		mu.Unlock()
	}()

	// Fetch the energy rating concurrently
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, perSourceTimeout)
		defer cancel()
		e, err := s.energySvc.GetEnergyRecord(fetchCtx, location)
		mu.Lock()
		if err != nil {
			errs = append(errs, err)
		} else {
			energy = e
		}
		mu.Unlock()
	}()

	// Photo analysis runs alongside the registry fetches; its one fatal
	// outcome is zero usable images.
	assessment, visionErr := s.analyzer.Analyze(ctx, images)

	wg.Wait()

	if visionErr != nil {
		return domain.EstimationResult{}, visionErr
	}

	// A failed optional source is only a degradation; log and continue.
	for _, err := range errs {
		log.Printf("Estimation source fetch error: %v", err)
	}

	salesStats := pricing.AggregateSales(txns)
	salesStats.RadiusMeters = defaultSalesRadiusMeters
	salesStats.PeriodMonths = defaultSalesMonths

	result, err := s.engine.Estimate(pricing.Inputs{
		Location:                 location,
		Parcel:                   parcel,
		Sales:                    salesStats,
		SectorDefaultPricePerSqm: s.salesSvc.SectorDefaultPrice(location),
		Energy:                   energy,
		Vision:                   assessment,
	})
	if err != nil {
		return domain.EstimationResult{}, err
	}

	// Persist the estimation asynchronously (tracked for graceful shutdown)
	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveEstimation(bgCtx, location, result); err != nil {
			log.Printf("Failed to save estimation: %v", err)
		}
	}()

	return result, nil
}

// GetParcel returns the raw cadastral lookup for a point
func (s *EstimateService) GetParcel(ctx context.Context, location domain.GeoPoint) (*domain.ParcelRecord, error) {
	if !location.Valid() || location.IsZero() {
		return nil, domain.ErrInvalidLocation
	}
	return s.cadastreSvc.GetParcel(ctx, location)
}

// GetSalesStats returns the aggregated comparable sales around a point
func (s *EstimateService) GetSalesStats(ctx context.Context, location domain.GeoPoint, radiusMeters float64, months int) (domain.SalesStats, error) {
	if !location.Valid() || location.IsZero() {
		return domain.SalesStats{}, domain.ErrInvalidLocation
	}
	txns, err := s.salesSvc.GetTransactions(ctx, location, radiusMeters, months)
	if err != nil {
		return domain.SalesStats{}, err
	}
	stats := pricing.AggregateSales(txns)
	stats.RadiusMeters = radiusMeters
	stats.PeriodMonths = months
	return stats, nil
}

// GetHistory returns recent persisted estimations
func (s *EstimateService) GetHistory(ctx context.Context, from, to time.Time, limit int) ([]domain.HistoryEntry, error) {
	return s.repo.GetHistory(ctx, from, to, limit)
}
