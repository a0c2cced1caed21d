package service

const (
	MaxLots             = 100_000
	MaxAmount           = 1_000_000_000.0 // per-lot and per-home dollar inputs
	MaxRatePercent      = 100.0           // contingency, fees, LTC
	MaxInterestRate     = 100.0           // annual %
	MaxDurationMonths   = 600             // 50 years
	MaxScheduleMonths   = 600             // absorption schedule rows
	MaxTranches         = 120
	MaxSensitivityDelta = 15 // values per sensitivity axis

	// MinDeltaPercent keeps shocked prices and costs non-negative.
	MinDeltaPercent = -100.0
	MaxDeltaPercent = 500.0

	MaxTemplateVariables = 50
	MaxVariableLength    = 200
)
