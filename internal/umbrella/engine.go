package umbrella

import (
	"fmt"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// EscalationFactor scales the probability threshold for the secondary
// "recommended" band. The band deliberately ignores the configured logic and
// the precipitation threshold: probability is the primary signal.
const EscalationFactor = 0.6

// Determine evaluates a forecast against an outing window and the user's
// threshold rule, producing the per-location umbrella result. A nil criteria
// applies the documented defaults. The function is pure: identical inputs
// always yield identical results.
func Determine(fc *types.Forecast, window types.Window, criteria *types.UmbrellaCriteria) (types.UmbrellaResult, error) {
	c := types.DefaultCriteria()
	if criteria != nil {
		c = *criteria
	}

	samples, err := ExtractHourlySamples(fc, window)
	if err != nil {
		return types.UmbrellaResult{}, err
	}

	result := types.UmbrellaResult{
		Decision: types.DecisionNotRequired,
		Hourly:   samples,
	}

	if len(samples) == 0 {
		result.Message = "No forecast data is available for this outing window."
		return result, nil
	}

	for _, s := range samples {
		if s.Pop > result.MaxPop {
			result.MaxPop = s.Pop
		}
		if s.Precip > result.MaxPrecip {
			result.MaxPrecip = s.Precip
		}
	}

	// Threshold comparisons are inclusive.
	popExceeds := result.MaxPop >= c.PopThreshold
	precipExceeds := result.MaxPrecip >= c.PrecipThreshold

	var required bool
	if c.Logic == types.LogicAnd {
		required = popExceeds && precipExceeds
	} else {
		required = popExceeds || precipExceeds
	}

	switch {
	case required:
		result.Decision = types.DecisionRequired
		result.Message = requiredMessage(popExceeds, precipExceeds, result.MaxPop, result.MaxPrecip)
	case result.MaxPop >= c.PopThreshold*EscalationFactor:
		result.Decision = types.DecisionRecommended
		result.Message = fmt.Sprintf(
			"Bring a compact umbrella just in case: %.0f%% chance of rain.", result.MaxPop)
	default:
		result.Message = "No umbrella needed."
	}

	return result, nil
}

// requiredMessage phrases the "required" outcome by which condition(s)
// triggered it, carrying the triggering numeric value(s).
func requiredMessage(popExceeds, precipExceeds bool, maxPop, maxPrecip float64) string {
	switch {
	case popExceeds && precipExceeds:
		return fmt.Sprintf(
			"Umbrella required: %.0f%% chance of rain with %.1fmm of precipitation expected.",
			maxPop, maxPrecip)
	case precipExceeds:
		return fmt.Sprintf("Umbrella required: %.1fmm of precipitation expected.", maxPrecip)
	default:
		return fmt.Sprintf("Umbrella required: %.0f%% chance of rain.", maxPop)
	}
}
