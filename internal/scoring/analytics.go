package scoring

import (
	dealdomain "stageflow_backend/internal/deals/domain"
)

// DealAnalytics is the aggregate view over an organization's deal set.
type DealAnalytics struct {
	TotalDeals   int                `json:"totalDeals"`
	ActiveDeals  int                `json:"activeDeals"`
	WonDeals     int                `json:"wonDeals"`
	LostDeals    int                `json:"lostDeals"`
	OpenValue    float64            `json:"openValue"`
	WonValue     float64            `json:"wonValue"`
	// WeightedForecast is the open value discounted by each deal's
	// confidence score. Deals without a score contribute nothing.
	WeightedForecast float64 `json:"weightedForecast"`
	AvgDealValue     float64 `json:"avgDealValue"`
	WinRate          float64 `json:"winRate"`
	DealsByStage map[string]int     `json:"dealsByStage"`
	ValueByStage map[string]float64 `json:"valueByStage"`
}

// Aggregate computes analytics over the deal set in a single pass. Deals
// without a value contribute to counts but not to value totals.
func Aggregate(deals []*dealdomain.Deal) DealAnalytics {
	analytics := DealAnalytics{
		DealsByStage: map[string]int{},
		ValueByStage: map[string]float64{},
	}

	valued := 0
	totalValue := 0.0
	for _, deal := range deals {
		if deal == nil {
			continue
		}
		analytics.TotalDeals++
		analytics.DealsByStage[deal.Stage]++

		var value float64
		if deal.Value != nil {
			value = *deal.Value
			valued++
			totalValue += value
			analytics.ValueByStage[deal.Stage] += value
		}

		switch deal.Status {
		case dealdomain.StatusWon:
			analytics.WonDeals++
			analytics.WonValue += value
		case dealdomain.StatusLost:
			analytics.LostDeals++
		case dealdomain.StatusActive:
			analytics.ActiveDeals++
			analytics.OpenValue += value
			if deal.Confidence != nil {
				analytics.WeightedForecast += value * (*deal.Confidence / 100)
			}
		}
	}

	if valued > 0 {
		analytics.AvgDealValue = totalValue / float64(valued)
	}
	if closed := analytics.WonDeals + analytics.LostDeals; closed > 0 {
		analytics.WinRate = float64(analytics.WonDeals) / float64(closed)
	}
	return analytics
}
