package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("MixedCuisineOmitted", func(t *testing.T) {
		prompt, err := BuildPrompt(testProfile())
		require.NoError(t, err)

		assert.Contains(t, prompt, "valid JSON format only")
		assert.Contains(t, prompt, "Generate a non-vegetarian 3-meal plan (breakfast, lunch, dinner) under 1617.5 kcal for a 70kg male looking to maintain weight.")
		assert.NotContains(t, prompt, "cuisine influence")
		assert.Contains(t, prompt, `"totalCalories": sum_as_number`)
	})

	t.Run("CuisineAndDiet", func(t *testing.T) {
		p := testProfile()
		p.DietaryPreference = DietVegetarian
		p.CuisineType = CuisineIndian
		p.Goal = GoalWeightLoss
		p.Weight = 72.5

		prompt, err := BuildPrompt(p)
		require.NoError(t, err)
		assert.Contains(t, prompt, "Generate a vegetarian 3-meal plan")
		assert.Contains(t, prompt, "for a 72.5kg male looking to lose weight with indian cuisine influence.")
		assert.Contains(t, prompt, "under 1142.5 kcal")
	})

	t.Run("WeightGainPhrase", func(t *testing.T) {
		p := testProfile()
		p.Goal = GoalWeightGain
		prompt, err := BuildPrompt(p)
		require.NoError(t, err)
		assert.Contains(t, prompt, "looking to gain weight")
	})
}
