package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks errors caused by the caller's input.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func checkAmount(name string, v float64) error {
	if v < 0 {
		return invalidf("%s must not be negative", name)
	}
	if v > MaxAmount {
		return invalidf("%s exceeds the maximum of $%.2f", name, MaxAmount)
	}
	return nil
}

func checkRate(name string, v, max float64) error {
	if v < 0 {
		return invalidf("%s must not be negative", name)
	}
	if v > max {
		return invalidf("%s exceeds the maximum of %.2f%%", name, max)
	}
	return nil
}

func checkMonths(name string, v int) error {
	if v < 0 {
		return invalidf("%s must not be negative", name)
	}
	if v > MaxDurationMonths {
		return invalidf("%s exceeds the maximum of %d months", name, MaxDurationMonths)
	}
	return nil
}

func checkLots(n int) error {
	if n <= 0 {
		return invalidf("total lots must be positive")
	}
	if n > MaxLots {
		return invalidf("total lots exceeds the maximum of %d", MaxLots)
	}
	return nil
}

func checkAbsorption(lots int, perMonth float64) error {
	if perMonth < 0 {
		return invalidf("absorption per month must not be negative")
	}
	if perMonth > 0 && float64(lots)/perMonth-ceilEpsilon > MaxScheduleMonths {
		return invalidf("absorption of %g lots/month needs more than the maximum of %d months", perMonth, MaxScheduleMonths)
	}
	return nil
}
