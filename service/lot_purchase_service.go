package service

import (
	"context"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
	"homebuilder-proforma/repository"
)

type LotPurchaseService struct {
	recorder *runRecorder
	narrator *NarrativeService
}

func NewLotPurchaseService(
	runs repository.ProformaRepository,
	cache repository.CacheRepository,
	narrator *NarrativeService,
) *LotPurchaseService {
	return &LotPurchaseService{
		recorder: newRunRecorder(runs, cache),
		narrator: narrator,
	}
}

// Calculate validates the input, runs the lot-purchase proforma and
// records the run.
func (s *LotPurchaseService) Calculate(
	ctx context.Context,
	input domain.LotPurchaseInput,
) (domain.LotPurchaseResult, error) {
	if err := ValidateLotPurchase(input); err != nil {
		return domain.LotPurchaseResult{}, err
	}

	key, err := cacheKey(domain.KindLotPurchase, input)
	if err == nil {
		var cached domain.LotPurchaseResult
		if s.recorder.lookup(ctx, key, &cached) {
			logger.FromContext(ctx).Debug("Lot purchase cache hit", "key", key)
			return cached, nil
		}
	}

	result := CalculateLotPurchase(input)
	if s.narrator != nil {
		result.Summary = s.narrator.LotPurchaseSummary(ctx, input, result)
	}
	result.RunID = s.recorder.save(ctx, domain.KindLotPurchase, input, result)

	if key != "" {
		s.recorder.remember(ctx, key, result)
	}
	return result, nil
}

func ValidateLotPurchase(input domain.LotPurchaseInput) error {
	if err := checkLots(input.TotalLots); err != nil {
		return err
	}
	if input.TrancheCount < 0 {
		return invalidf("tranche count must not be negative")
	}
	if input.TrancheCount > MaxTranches {
		return invalidf("tranche count exceeds the maximum of %d", MaxTranches)
	}
	if err := checkMonths("tranche interval months", input.TrancheIntervalMonths); err != nil {
		return err
	}
	amounts := []struct {
		name  string
		value float64
	}{
		{"lot price", input.LotPrice},
		{"vertical cost per home", input.VerticalCostPerHome},
		{"upgrades per home", input.UpgradesPerHome},
		{"soft cost per home", input.SoftCostPerHome},
		{"sales price per home", input.SalesPricePerHome},
	}
	for _, a := range amounts {
		if err := checkAmount(a.name, a.value); err != nil {
			return err
		}
	}
	if err := checkRate("loan to cost", input.LoanToCost, MaxRatePercent); err != nil {
		return err
	}
	if err := checkRate("interest rate", input.InterestRate, MaxInterestRate); err != nil {
		return err
	}
	if err := checkMonths("construction months", input.ConstructionMonths); err != nil {
		return err
	}
	return checkAbsorption(input.TotalLots, input.AbsorptionPerMonth)
}

// CalculateLotPurchase computes per-home economics, project returns and
// the takedown schedule of a phased lot purchase.
func CalculateLotPurchase(input domain.LotPurchaseInput) domain.LotPurchaseResult {
	lots := float64(input.TotalLots)
	ltc := pct(input.LoanToCost)

	allIn := input.LotPrice + input.VerticalCostPerHome + input.UpgradesPerHome + input.SoftCostPerHome
	interest := allIn * ltc * pct(input.InterestRate) * float64(input.ConstructionMonths) / 12

	var r domain.LotPurchaseResult
	r.AllInCostPerHome = roundCurrency(allIn)
	r.ConstructionInterest = roundCurrency(interest)
	r.TotalCostPerHome = sumCurrency(r.AllInCostPerHome, r.ConstructionInterest)
	salePrice := roundCurrency(input.SalesPricePerHome)
	r.ProfitPerHome = subCurrency(salePrice, r.TotalCostPerHome)
	r.MarginPerHome = roundTo2Decimals(safeDiv(r.ProfitPerHome, salePrice) * 100)

	r.TotalLandCost = roundCurrency(lots * input.LotPrice)
	r.TotalRevenue = roundCurrency(lots * input.SalesPricePerHome)
	r.TotalCost = roundCurrency(lots * r.TotalCostPerHome)
	r.TotalProfit = subCurrency(r.TotalRevenue, r.TotalCost)
	r.TotalDebt = roundCurrency(lots * allIn * ltc)
	r.TotalEquity = subCurrency(r.TotalCost, r.TotalDebt)
	r.ROI = roundTo2Decimals(safeDiv(r.TotalProfit, r.TotalEquity) * 100)
	r.EquityMultiple = roundTo2Decimals(safeDiv(r.TotalEquity+r.TotalProfit, r.TotalEquity))

	r.Takedowns = takedownSchedule(input.TotalLots, input.TrancheCount, input.TrancheIntervalMonths, input.LotPrice, r.TotalLandCost)
	r.SelloutMonths = ceilDiv(lots, input.AbsorptionPerMonth)

	return r
}

// takedownSchedule splits totalLots evenly across tranches. The last
// tranche takes the lot remainder and the cost rounding remainder, so lots
// sum to totalLots and costs sum to totalLandCost.
func takedownSchedule(totalLots, count, intervalMonths int, lotPrice, totalLandCost float64) []domain.Tranche {
	if totalLots <= 0 {
		return []domain.Tranche{}
	}
	if count <= 0 {
		count = 1
	}
	if count > totalLots {
		count = totalLots
	}

	base := totalLots / count
	tranches := make([]domain.Tranche, 0, count)
	allocated := 0.0
	for i := 0; i < count; i++ {
		t := domain.Tranche{
			Number: i + 1,
			Month:  i * intervalMonths,
			Lots:   base,
		}
		if i == count-1 {
			t.Lots = totalLots - base*(count-1)
			t.Cost = subCurrency(totalLandCost, allocated)
		} else {
			t.Cost = roundCurrency(float64(t.Lots) * lotPrice)
			allocated = sumCurrency(allocated, t.Cost)
		}
		tranches = append(tranches, t)
	}
	return tranches
}
