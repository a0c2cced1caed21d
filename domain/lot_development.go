package domain

// LotDevelopmentInput describes a horizontal development deal where raw
// land is improved into finished lots and sold. Rates are percentages.
type LotDevelopmentInput struct {
	TotalLots            int     `json:"totalLots"`
	LandCostPerLot       float64 `json:"landCostPerLot"`
	HorizontalCostPerLot float64 `json:"horizontalCostPerLot"`
	ContingencyRate      float64 `json:"contingencyRate"`
	SoftCostRate         float64 `json:"softCostRate"`
	DeveloperFeeRate     float64 `json:"developerFeeRate"`
	LoanToCost           float64 `json:"loanToCost"`
	InterestRate         float64 `json:"interestRate"`
	DevelopmentMonths    int     `json:"developmentMonths"`
	SalesPricePerLot     float64 `json:"salesPricePerLot"`
	AbsorptionPerMonth   float64 `json:"absorptionPerMonth"`
}

type AbsorptionMonth struct {
	Month             int     `json:"month"`
	LotsSold          int     `json:"lotsSold"`
	CumulativeLots    int     `json:"cumulativeLots"`
	CumulativeRevenue float64 `json:"cumulativeRevenue"`
	CumulativeProfit  float64 `json:"cumulativeProfit"`
}

type LotDevelopmentResult struct {
	HardCostSubtotal float64 `json:"hardCostSubtotal"`
	Contingency      float64 `json:"contingency"`
	SoftCosts        float64 `json:"softCosts"`
	DeveloperFee     float64 `json:"developerFee"`
	Fees             float64 `json:"fees"`
	InterestReserve  float64 `json:"interestReserve"`
	TotalUses        float64 `json:"totalUses"`

	SeniorDebt float64 `json:"seniorDebt"`
	Equity     float64 `json:"equity"`

	Revenue        float64 `json:"revenue"`
	GrossProfit    float64 `json:"grossProfit"`
	ProfitMargin   float64 `json:"profitMargin"`
	EquityMultiple float64 `json:"equityMultiple"`

	MonthsToSellOut     int               `json:"monthsToSellOut"`
	BreakevenLots       int               `json:"breakevenLots"`
	BreakevenMonth      int               `json:"breakevenMonth"`
	BreakevenAchievable bool              `json:"breakevenAchievable"`
	AbsorptionSchedule  []AbsorptionMonth `json:"absorptionSchedule"`

	RunID   string `json:"runId,omitempty"`
	Summary string `json:"summary,omitempty"`
}
