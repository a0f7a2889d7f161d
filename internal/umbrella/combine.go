package umbrella

import (
	"fmt"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// Combine merges the optional origin and destination evaluations into one
// overall result, worst-case wins under required > recommended > not_required.
// The reducer is pure: it must be re-run whenever either input changes.
func Combine(origin, destination *types.LocationResult) types.CombinedResult {
	combined := types.CombinedResult{
		Origin:      origin,
		Destination: destination,
	}

	switch {
	case origin == nil && destination == nil:
		combined.Decision = types.DecisionNotRequired
		combined.Message = "Please configure a location to check the forecast."

	case origin != nil && destination == nil:
		combined.Decision = origin.Result.Decision
		combined.Message = origin.Result.Message

	case origin == nil && destination != nil:
		combined.Decision = destination.Result.Decision
		combined.Message = destination.Result.Message

	default:
		combined.Decision = origin.Result.Decision.Worse(destination.Result.Decision)
		combined.Message = combinedMessage(combined.Decision, origin, destination)
	}

	return combined
}

// combinedMessage attributes the overall decision to the location(s) that
// carry it when both locations were evaluated.
func combinedMessage(overall types.Decision, origin, destination *types.LocationResult) string {
	switch overall {
	case types.DecisionRequired:
		both := origin.Result.Decision == types.DecisionRequired &&
			destination.Result.Decision == types.DecisionRequired
		if both {
			return "Both locations need an umbrella."
		}
		return fmt.Sprintf("%s needs an umbrella.", triggeringName(overall, origin, destination))

	case types.DecisionRecommended:
		both := origin.Result.Decision == types.DecisionRecommended &&
			destination.Result.Decision == types.DecisionRecommended
		if both {
			return "Consider bringing an umbrella for both locations."
		}
		return fmt.Sprintf("Consider bringing an umbrella for %s.", triggeringName(overall, origin, destination))

	default:
		return "No umbrella needed."
	}
}

// triggeringName returns the name of the location whose decision matches the
// overall one. The origin is checked first for deterministic attribution.
func triggeringName(overall types.Decision, origin, destination *types.LocationResult) string {
	if origin.Result.Decision == overall {
		return origin.Location.Name
	}
	return destination.Location.Name
}
