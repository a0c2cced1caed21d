package service

import (
	"context"
	"sort"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
)

// SensitivityService shocks the sales price and the per-lot costs of a
// lot-development deal and reports how returns move.
type SensitivityService struct{}

func NewSensitivityService() *SensitivityService {
	return &SensitivityService{}
}

// Analyze runs the proforma for every (price delta, cost delta) pair.
// Cases are sorted by profit margin, best first. Individual cases are not
// saved as runs.
func (s *SensitivityService) Analyze(
	ctx context.Context,
	input domain.SensitivityInput,
) (domain.SensitivityResult, error) {
	if err := ValidateLotDevelopment(input.Base); err != nil {
		return domain.SensitivityResult{}, err
	}

	priceDeltas, err := normalizeDeltas("price", input.PriceDeltas)
	if err != nil {
		return domain.SensitivityResult{}, err
	}
	costDeltas, err := normalizeDeltas("cost", input.CostDeltas)
	if err != nil {
		return domain.SensitivityResult{}, err
	}

	cases := make([]domain.SensitivityCase, 0, len(priceDeltas)*len(costDeltas))
	for _, pd := range priceDeltas {
		for _, cd := range costDeltas {
			cases = append(cases, sensitivityCase(input.Base, pd, cd))
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].ProfitMargin > cases[j].ProfitMargin
	})

	logger.FromContext(ctx).Debug("Sensitivity analysis complete", "cases", len(cases))

	return domain.SensitivityResult{
		Base:  sensitivityCase(input.Base, 0, 0),
		Cases: cases,
	}, nil
}

func sensitivityCase(base domain.LotDevelopmentInput, priceDelta, costDelta float64) domain.SensitivityCase {
	shocked := base
	shocked.SalesPricePerLot = base.SalesPricePerLot * (1 + pct(priceDelta))
	shocked.LandCostPerLot = base.LandCostPerLot * (1 + pct(costDelta))
	shocked.HorizontalCostPerLot = base.HorizontalCostPerLot * (1 + pct(costDelta))

	r := CalculateLotDevelopment(shocked)
	return domain.SensitivityCase{
		PriceDelta:     priceDelta,
		CostDelta:      costDelta,
		GrossProfit:    r.GrossProfit,
		ProfitMargin:   r.ProfitMargin,
		EquityMultiple: r.EquityMultiple,
	}
}

// normalizeDeltas defaults an empty axis to the unshocked case.
func normalizeDeltas(axis string, deltas []float64) ([]float64, error) {
	if len(deltas) == 0 {
		return []float64{0}, nil
	}
	if len(deltas) > MaxSensitivityDelta {
		return nil, invalidf("%s deltas exceed the maximum of %d values", axis, MaxSensitivityDelta)
	}
	for _, d := range deltas {
		if d < MinDeltaPercent || d > MaxDeltaPercent {
			return nil, invalidf("%s delta %.2f%% is outside [%.0f%%, %.0f%%]", axis, d, MinDeltaPercent, MaxDeltaPercent)
		}
	}
	return deltas, nil
}
