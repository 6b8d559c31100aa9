package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/estimmo/backend/internal/domain"
)

func txn(price, area float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Price:         price,
		LivingAreaSqm: area,
	}
}

func TestAggregateSales_NoTransactionsIsDegradedNotError(t *testing.T) {
	got := AggregateSales(nil)

	assert.Equal(t, domain.TierNone, got.Tier)
	assert.Equal(t, 0, got.TransactionCount)
	assert.Equal(t, 0.0, got.MedianPricePerSqm)
}

func TestAggregateSales_FiltersImplausibleRecords(t *testing.T) {
	got := AggregateSales([]domain.TransactionRecord{
		txn(350000, 100), // 3500/m², kept
		txn(0, 100),      // no price
		txn(300000, 5),   // area below the plausibility floor
		txn(2000, 100),   // 20/m², below plausible unit price
		txn(5000000, 80), // 62500/m², above plausible unit price
	})

	assert.Equal(t, 1, got.TransactionCount)
	assert.Equal(t, domain.TierLow, got.Tier)
	assert.InDelta(t, 3500, got.MedianPricePerSqm, 0.01)
}

func TestAggregateSales_MedianRobustToOutlierSale(t *testing.T) {
	got := AggregateSales([]domain.TransactionRecord{
		txn(300000, 100), // 3000
		txn(310000, 100), // 3100
		txn(320000, 100), // 3200
		txn(330000, 100), // 3300
		txn(1500000, 100), // 15000, an outlier
	})

	assert.InDelta(t, 3200, got.MedianPricePerSqm, 0.01)
	assert.Greater(t, got.MeanPricePerSqm, got.MedianPricePerSqm)
	assert.Equal(t, 15000.0, got.MaxPricePerSqm)
	assert.Equal(t, 3000.0, got.MinPricePerSqm)
}

func TestAggregateSales_ReliabilityTierBoundaries(t *testing.T) {
	build := func(n int) []domain.TransactionRecord {
		out := make([]domain.TransactionRecord, n)
		for i := range out {
			out[i] = txn(300000, 100)
		}
		return out
	}

	cases := []struct {
		count int
		want  domain.ReliabilityTier
	}{
		{0, domain.TierNone},
		{1, domain.TierLow},
		{4, domain.TierLow},
		{5, domain.TierModerate},
		{14, domain.TierModerate},
		{15, domain.TierHigh},
		{40, domain.TierHigh},
	}
	for _, tc := range cases {
		got := AggregateSales(build(tc.count))
		assert.Equal(t, tc.want, got.Tier, "count=%d", tc.count)
	}
}

func TestAggregateSales_SingleSaleHasNoStdDev(t *testing.T) {
	got := AggregateSales([]domain.TransactionRecord{txn(300000, 100)})
	assert.Equal(t, 0.0, got.StdDevPricePerSqm)
}
