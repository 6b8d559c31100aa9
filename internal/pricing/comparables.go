package pricing

import (
	"github.com/montanaflynn/stats"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/pkg/utils"
)

// Plausibility window for a comparable sale. Tiny areas and absurd unit
// prices are registry noise, not market signal.
const (
	minComparableAreaSqm = 10.0
	minPlausiblePriceSqm = 500.0
	maxPlausiblePriceSqm = 20000.0
)

// AggregateSales computes the base price-per-area statistics from the
// comparable sales around the subject. The median is the primary base
// signal (robust to outlier sales); the mean is reported for
// transparency. Zero usable transactions is a degraded-data condition,
// not an error: the stats come back zeroed with tier "none".
func AggregateSales(txns []domain.TransactionRecord) domain.SalesStats {
	prices := make([]float64, 0, len(txns))
	for _, t := range txns {
		if t.Price <= 0 || t.LivingAreaSqm < minComparableAreaSqm {
			continue
		}
		psqm := t.PricePerSqm()
		if psqm < minPlausiblePriceSqm || psqm > maxPlausiblePriceSqm {
			continue
		}
		prices = append(prices, psqm)
	}

	s := domain.SalesStats{
		TransactionCount: len(prices),
		Tier:             domain.TierForCount(len(prices)),
	}
	if len(prices) == 0 {
		return s
	}

	// stats errors only on empty input, which is excluded above.
	median, _ := stats.Median(prices)
	mean, _ := stats.Mean(prices)
	min, _ := stats.Min(prices)
	max, _ := stats.Max(prices)

	s.MedianPricePerSqm = utils.RoundTo(median, 2)
	s.MeanPricePerSqm = utils.RoundTo(mean, 2)
	s.MinPricePerSqm = utils.RoundTo(min, 2)
	s.MaxPricePerSqm = utils.RoundTo(max, 2)

	if len(prices) > 1 {
		sd, _ := stats.StandardDeviationSample(prices)
		s.StdDevPricePerSqm = utils.RoundTo(sd, 2)
	}
	return s
}
