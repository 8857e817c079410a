package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeUsage(t *testing.T) {
	tests := []struct {
		name             string
		userHours        int64
		totalHours       int64
		effectiveQuota   int
		totalQuota       int
		threshold        int
		wantPct          float64
		wantTotalPct     float64
		wantWarning      bool
		wantOverQuota    bool
	}{
		{
			name:      "eighty percent hits the default threshold",
			userHours: 4000, totalHours: 4000,
			effectiveQuota: 50, totalQuota: 50, threshold: 80,
			wantPct: 80, wantTotalPct: 80, wantWarning: true, wantOverQuota: false,
		},
		{
			name:      "below threshold",
			userHours: 1000, totalHours: 3000,
			effectiveQuota: 50, totalQuota: 100, threshold: 80,
			wantPct: 20, wantTotalPct: 30, wantWarning: false, wantOverQuota: false,
		},
		{
			name:      "over quota",
			userHours: 6000, totalHours: 6000,
			effectiveQuota: 50, totalQuota: 50, threshold: 80,
			wantPct: 120, wantTotalPct: 120, wantWarning: true, wantOverQuota: true,
		},
		{
			name:      "zero quota never divides",
			userHours: 4000, totalHours: 9000,
			effectiveQuota: 0, totalQuota: 0, threshold: 80,
			wantPct: 0, wantTotalPct: 0, wantWarning: false, wantOverQuota: false,
		},
		{
			name:      "zero hours logged",
			userHours: 0, totalHours: 0,
			effectiveQuota: 50, totalQuota: 100, threshold: 80,
			wantPct: 0, wantTotalPct: 0, wantWarning: false, wantOverQuota: false,
		},
		{
			name:      "individual quota overrides project quota",
			userHours: 2000, totalHours: 8000,
			effectiveQuota: 20, totalQuota: 100, threshold: 80,
			wantPct: 100, wantTotalPct: 80, wantWarning: true, wantOverQuota: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeUsage(tt.userHours, tt.totalHours, tt.effectiveQuota, tt.totalQuota, tt.threshold)
			assert.InDelta(t, tt.wantPct, got.UsagePercentage, 1e-9)
			assert.InDelta(t, tt.wantTotalPct, got.TotalUsagePercentage, 1e-9)
			assert.Equal(t, tt.wantWarning, got.IsWarning)
			assert.Equal(t, tt.wantOverQuota, got.IsOverQuota)
			assert.Equal(t, tt.effectiveQuota, got.QuotaHours)
			assert.Equal(t, tt.totalQuota, got.TotalQuotaHours)
		})
	}
}
