package umbrella

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jiten-project/umbrella-app/internal/types"
)

func locationResult(name string, decision types.Decision, message string) *types.LocationResult {
	return &types.LocationResult{
		Location: types.Location{ID: name, Name: name, AreaCode: "130010"},
		Result:   types.UmbrellaResult{Decision: decision, Message: message},
	}
}

func TestCombine(t *testing.T) {
	t.Run("no locations asks for configuration", func(t *testing.T) {
		combined := Combine(nil, nil)
		assert.Equal(t, types.DecisionNotRequired, combined.Decision)
		assert.Equal(t, "Please configure a location to check the forecast.", combined.Message)
		assert.Nil(t, combined.Origin)
		assert.Nil(t, combined.Destination)
	})

	t.Run("single location passes through verbatim", func(t *testing.T) {
		origin := locationResult("Home", types.DecisionRequired, "Umbrella required: 80% chance of rain.")

		combined := Combine(origin, nil)
		assert.Equal(t, types.DecisionRequired, combined.Decision)
		assert.Equal(t, "Umbrella required: 80% chance of rain.", combined.Message)

		combined = Combine(nil, origin)
		assert.Equal(t, types.DecisionRequired, combined.Decision)
		assert.Equal(t, "Umbrella required: 80% chance of rain.", combined.Message)
	})

	t.Run("worst case wins across two locations", func(t *testing.T) {
		tests := []struct {
			name        string
			origin      types.Decision
			destination types.Decision
			want        types.Decision
		}{
			{"required beats recommended", types.DecisionRecommended, types.DecisionRequired, types.DecisionRequired},
			{"required beats not_required", types.DecisionRequired, types.DecisionNotRequired, types.DecisionRequired},
			{"recommended beats not_required", types.DecisionNotRequired, types.DecisionRecommended, types.DecisionRecommended},
			{"equal stays equal", types.DecisionNotRequired, types.DecisionNotRequired, types.DecisionNotRequired},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				combined := Combine(
					locationResult("Home", tt.origin, ""),
					locationResult("Office", tt.destination, ""),
				)
				assert.Equal(t, tt.want, combined.Decision)
			})
		}
	})

	t.Run("message names the triggering location", func(t *testing.T) {
		combined := Combine(
			locationResult("Home", types.DecisionNotRequired, ""),
			locationResult("Office", types.DecisionRequired, ""),
		)
		assert.Equal(t, "Office needs an umbrella.", combined.Message)

		combined = Combine(
			locationResult("Home", types.DecisionRecommended, ""),
			locationResult("Office", types.DecisionNotRequired, ""),
		)
		assert.Equal(t, "Consider bringing an umbrella for Home.", combined.Message)
	})

	t.Run("both locations triggering get the joint message", func(t *testing.T) {
		combined := Combine(
			locationResult("Home", types.DecisionRequired, ""),
			locationResult("Office", types.DecisionRequired, ""),
		)
		assert.Equal(t, "Both locations need an umbrella.", combined.Message)

		combined = Combine(
			locationResult("Home", types.DecisionRecommended, ""),
			locationResult("Office", types.DecisionRecommended, ""),
		)
		assert.Equal(t, "Consider bringing an umbrella for both locations.", combined.Message)
	})

	t.Run("origin wins attribution ties", func(t *testing.T) {
		combined := Combine(
			locationResult("Home", types.DecisionRequired, ""),
			locationResult("Office", types.DecisionRecommended, ""),
		)
		assert.Equal(t, "Home needs an umbrella.", combined.Message)
	})

	t.Run("not required overall keeps a neutral message", func(t *testing.T) {
		combined := Combine(
			locationResult("Home", types.DecisionNotRequired, "No umbrella needed."),
			locationResult("Office", types.DecisionNotRequired, "No umbrella needed."),
		)
		assert.Equal(t, "No umbrella needed.", combined.Message)
	})
}
