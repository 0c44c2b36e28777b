package adapter

import (
	"fmt"
	"math"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

const kilojoulesPerKilocalorie = 4.184

// normalizeValue converts a platform-native value into the category's
// canonical unit: mass in kg, percentage in 0-100, energy in kcal, count as
// a whole number, duration in minutes. This is the single choke point for
// unit math on the read path.
func normalizeValue(category registry.Category, value float64, unit platform.Unit) (float64, error) {
	switch registry.Unit(category) {
	case registry.UnitMass:
		switch unit {
		case platform.UnitKilogram:
			return value, nil
		case platform.UnitGram:
			return value / 1000, nil
		case platform.UnitPound:
			return value * 0.45359237, nil
		}
	case registry.UnitPercentage:
		switch unit {
		case platform.UnitFraction:
			return value * 100, nil
		case platform.UnitPercent:
			return value, nil
		}
	case registry.UnitEnergy:
		switch unit {
		case platform.UnitKilocalorie:
			return value, nil
		case platform.UnitKilojoule:
			return value / kilojoulesPerKilocalorie, nil
		}
	case registry.UnitCount:
		if unit == platform.UnitCount {
			return math.Round(value), nil
		}
	case registry.UnitDuration:
		switch unit {
		case platform.UnitMinute:
			return value, nil
		case platform.UnitSecond:
			return value / 60, nil
		case platform.UnitHour:
			return value * 60, nil
		}
	}
	return 0, fmt.Errorf("%w: %s value in unit %q", domain.ErrMappingFailed, category, unit)
}

// denormalizeValue converts a canonical-unit value into the native unit the
// platform stores for the category. Percentages go back to the platform's
// 0-1 fractional representation.
func denormalizeValue(category registry.Category, value float64) (float64, platform.Unit) {
	switch registry.Unit(category) {
	case registry.UnitMass:
		return value, platform.UnitKilogram
	case registry.UnitPercentage:
		return value / 100, platform.UnitFraction
	case registry.UnitEnergy:
		return value, platform.UnitKilocalorie
	case registry.UnitDuration:
		return value, platform.UnitMinute
	default:
		return value, platform.UnitCount
	}
}
