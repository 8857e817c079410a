package billing

// Usage — производные показатели потребления квоты. Нигде не хранится,
// считается на лету при выдаче списков.
type Usage struct {
	UsedHours            float64 `json:"usedHours"`
	QuotaHours           int     `json:"userQuotaHours"`
	UsagePercentage      float64 `json:"usagePercentage"`
	IsWarning            bool    `json:"isWarning"`
	IsOverQuota          bool    `json:"isOverQuota"`
	TotalUsedHours       float64 `json:"totalUsedHours"`
	TotalQuotaHours      int     `json:"totalQuotaHours"`
	TotalUsagePercentage float64 `json:"totalUsagePercentage"`
}

// ComputeUsage считает проценты потребления по личной и общей квоте.
// Нулевая квота даёт 0%, а не деление на ноль.
func ComputeUsage(userHoursScaled, totalHoursScaled int64, effectiveQuota, totalQuota, warningThreshold int) Usage {
	userHours := float64(userHoursScaled) / 100
	totalHours := float64(totalHoursScaled) / 100

	var userPct, totalPct float64
	if effectiveQuota > 0 {
		userPct = userHours / float64(effectiveQuota) * 100
	}
	if totalQuota > 0 {
		totalPct = totalHours / float64(totalQuota) * 100
	}

	return Usage{
		UsedHours:            userHours,
		QuotaHours:           effectiveQuota,
		UsagePercentage:      userPct,
		IsWarning:            userPct >= float64(warningThreshold),
		IsOverQuota:          userPct >= 100,
		TotalUsedHours:       totalHours,
		TotalQuotaHours:      totalQuota,
		TotalUsagePercentage: totalPct,
	}
}
