package service

import (
	"context"
	"math"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
	"homebuilder-proforma/repository"
)

type LotDevelopmentService struct {
	recorder *runRecorder
	narrator *NarrativeService
}

// NewLotDevelopmentService creates a LotDevelopmentService. runs and cache
// may be nil.
func NewLotDevelopmentService(
	runs repository.ProformaRepository,
	cache repository.CacheRepository,
	narrator *NarrativeService,
) *LotDevelopmentService {
	return &LotDevelopmentService{
		recorder: newRunRecorder(runs, cache),
		narrator: narrator,
	}
}

// Calculate validates the input, runs the lot-development proforma and
// records the run.
func (s *LotDevelopmentService) Calculate(
	ctx context.Context,
	input domain.LotDevelopmentInput,
) (domain.LotDevelopmentResult, error) {
	if err := ValidateLotDevelopment(input); err != nil {
		return domain.LotDevelopmentResult{}, err
	}

	key, err := cacheKey(domain.KindLotDevelopment, input)
	if err == nil {
		var cached domain.LotDevelopmentResult
		if s.recorder.lookup(ctx, key, &cached) {
			logger.FromContext(ctx).Debug("Lot development cache hit", "key", key)
			return cached, nil
		}
	}

	result := CalculateLotDevelopment(input)
	if s.narrator != nil {
		result.Summary = s.narrator.LotDevelopmentSummary(ctx, input, result)
	}
	result.RunID = s.recorder.save(ctx, domain.KindLotDevelopment, input, result)

	if key != "" {
		s.recorder.remember(ctx, key, result)
	}
	return result, nil
}

// ValidateLotDevelopment rejects negative, missing or oversized inputs.
func ValidateLotDevelopment(input domain.LotDevelopmentInput) error {
	if err := checkLots(input.TotalLots); err != nil {
		return err
	}
	amounts := []struct {
		name  string
		value float64
	}{
		{"land cost per lot", input.LandCostPerLot},
		{"horizontal cost per lot", input.HorizontalCostPerLot},
		{"sales price per lot", input.SalesPricePerLot},
	}
	for _, a := range amounts {
		if err := checkAmount(a.name, a.value); err != nil {
			return err
		}
	}
	rates := []struct {
		name  string
		value float64
		max   float64
	}{
		{"contingency rate", input.ContingencyRate, MaxRatePercent},
		{"soft cost rate", input.SoftCostRate, MaxRatePercent},
		{"developer fee rate", input.DeveloperFeeRate, MaxRatePercent},
		{"loan to cost", input.LoanToCost, MaxRatePercent},
		{"interest rate", input.InterestRate, MaxInterestRate},
	}
	for _, r := range rates {
		if err := checkRate(r.name, r.value, r.max); err != nil {
			return err
		}
	}
	if err := checkMonths("development months", input.DevelopmentMonths); err != nil {
		return err
	}
	return checkAbsorption(input.TotalLots, input.AbsorptionPerMonth)
}

// CalculateLotDevelopment computes the sources and uses, returns and
// absorption schedule of a lot-development deal. Every ratio is guarded:
// a non-positive denominator yields 0.
func CalculateLotDevelopment(input domain.LotDevelopmentInput) domain.LotDevelopmentResult {
	lots := float64(input.TotalLots)
	ltc := pct(input.LoanToCost)

	hard := lots * (input.LandCostPerLot + input.HorizontalCostPerLot)
	contingency := hard * pct(input.ContingencyRate)
	softCosts := hard * pct(input.SoftCostRate)
	developerFee := hard * pct(input.DeveloperFeeRate)
	financed := hard + contingency + softCosts + developerFee
	interest := financed * ltc * pct(input.InterestRate) * float64(input.DevelopmentMonths) / 12

	var r domain.LotDevelopmentResult
	r.HardCostSubtotal = roundCurrency(hard)
	r.Contingency = roundCurrency(contingency)
	r.SoftCosts = roundCurrency(softCosts)
	r.DeveloperFee = roundCurrency(developerFee)
	r.Fees = sumCurrency(r.SoftCosts, r.DeveloperFee)
	r.InterestReserve = roundCurrency(interest)
	r.TotalUses = sumCurrency(r.HardCostSubtotal, r.Contingency, r.Fees, r.InterestReserve)

	r.SeniorDebt = roundCurrency(r.TotalUses * ltc)
	r.Equity = subCurrency(r.TotalUses, r.SeniorDebt)

	r.Revenue = roundCurrency(lots * input.SalesPricePerLot)
	r.GrossProfit = subCurrency(r.Revenue, r.TotalUses)
	r.ProfitMargin = roundTo2Decimals(safeDiv(r.GrossProfit, r.Revenue) * 100)
	r.EquityMultiple = roundTo2Decimals(safeDiv(r.Equity+r.GrossProfit, r.Equity))

	r.MonthsToSellOut = ceilDiv(lots, input.AbsorptionPerMonth)
	if input.SalesPricePerLot > 0 {
		r.BreakevenLots = ceilDiv(r.TotalUses, input.SalesPricePerLot)
		r.BreakevenAchievable = r.BreakevenLots <= input.TotalLots
		if r.BreakevenAchievable {
			r.BreakevenMonth = ceilDiv(float64(r.BreakevenLots), input.AbsorptionPerMonth)
		}
	}
	r.AbsorptionSchedule = absorptionSchedule(input.TotalLots, input.AbsorptionPerMonth, input.SalesPricePerLot, r.TotalUses)

	return r
}

// absorptionSchedule spreads lot sales at a constant monthly pace. Month m
// closes floor(m × pace) cumulative lots, and the final month sells
// whatever remains.
func absorptionSchedule(totalLots int, perMonth, price, totalUses float64) []domain.AbsorptionMonth {
	months := ceilDiv(float64(totalLots), perMonth)
	if months > MaxScheduleMonths {
		months = MaxScheduleMonths
	}
	schedule := make([]domain.AbsorptionMonth, 0, months)

	sold := 0
	for m := 1; m <= months; m++ {
		cumulative := int(math.Floor(float64(m)*perMonth + ceilEpsilon))
		if cumulative > totalLots || m == months {
			cumulative = totalLots
		}
		revenue := roundCurrency(float64(cumulative) * price)
		schedule = append(schedule, domain.AbsorptionMonth{
			Month:             m,
			LotsSold:          cumulative - sold,
			CumulativeLots:    cumulative,
			CumulativeRevenue: revenue,
			CumulativeProfit:  subCurrency(revenue, totalUses),
		})
		sold = cumulative
	}
	return schedule
}
