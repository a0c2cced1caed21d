package domain

type SensitivityInput struct {
	Base        LotDevelopmentInput `json:"base"`
	PriceDeltas []float64           `json:"priceDeltas"`
	CostDeltas  []float64           `json:"costDeltas"`
}

type SensitivityCase struct {
	PriceDelta     float64 `json:"priceDelta"`
	CostDelta      float64 `json:"costDelta"`
	GrossProfit    float64 `json:"grossProfit"`
	ProfitMargin   float64 `json:"profitMargin"`
	EquityMultiple float64 `json:"equityMultiple"`
}

type SensitivityResult struct {
	Base  SensitivityCase   `json:"base"`
	Cases []SensitivityCase `json:"cases"`
}
