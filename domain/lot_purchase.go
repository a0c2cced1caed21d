package domain

// LotPurchaseInput describes a phased purchase of finished lots on which
// homes are built and sold. Rates are percentages.
type LotPurchaseInput struct {
	TotalLots             int     `json:"totalLots"`
	TrancheCount          int     `json:"trancheCount"`
	TrancheIntervalMonths int     `json:"trancheIntervalMonths"`
	LotPrice              float64 `json:"lotPrice"`
	VerticalCostPerHome   float64 `json:"verticalCostPerHome"`
	UpgradesPerHome       float64 `json:"upgradesPerHome"`
	SoftCostPerHome       float64 `json:"softCostPerHome"`
	SalesPricePerHome     float64 `json:"salesPricePerHome"`
	LoanToCost            float64 `json:"loanToCost"`
	InterestRate          float64 `json:"interestRate"`
	ConstructionMonths    int     `json:"constructionMonths"`
	AbsorptionPerMonth    float64 `json:"absorptionPerMonth"`
}

// Tranche is one scheduled takedown of lots.
type Tranche struct {
	Number int     `json:"number"`
	Month  int     `json:"month"`
	Lots   int     `json:"lots"`
	Cost   float64 `json:"cost"`
}

type LotPurchaseResult struct {
	AllInCostPerHome     float64 `json:"allInCostPerHome"`
	ConstructionInterest float64 `json:"constructionInterest"`
	TotalCostPerHome     float64 `json:"totalCostPerHome"`
	ProfitPerHome        float64 `json:"profitPerHome"`
	MarginPerHome        float64 `json:"marginPerHome"`

	TotalLandCost  float64 `json:"totalLandCost"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalCost      float64 `json:"totalCost"`
	TotalProfit    float64 `json:"totalProfit"`
	TotalDebt      float64 `json:"totalDebt"`
	TotalEquity    float64 `json:"totalEquity"`
	ROI            float64 `json:"roi"`
	EquityMultiple float64 `json:"equityMultiple"`

	Takedowns     []Tranche `json:"takedowns"`
	SelloutMonths int       `json:"selloutMonths"`

	RunID   string `json:"runId,omitempty"`
	Summary string `json:"summary,omitempty"`
}
