package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanJSON = `{"breakfast": {"name": "Oats", "calories": 300, "items": ["oats"]}, "lunch": {"name": "Dal", "calories": 500, "items": ["dal"]}, "dinner": {"name": "Soup", "calories": 400, "items": ["soup"]}}`

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "Bare",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "Commentary",
			input: "Here you go:\n{\"a\": {\"b\": 2}}\nLet me know if you need changes.",
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "CodeFence",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "FirstOfSeveral",
			input: `{"a":1} and also {"b":2}`,
			want:  `{"a":1}`,
		},
		{
			name:  "BracesInStrings",
			input: `{"note":"use } and { freely","x":"\"}"} trailing }`,
			want:  `{"note":"use } and { freely","x":"\"}"}`,
		},
		{
			name:  "SkipsInvalidSpan",
			input: `{placeholder} then {"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "UnclosedBraceInProse",
			input: "Sure { here is the plan: " + validPlanJSON,
			want:  validPlanJSON,
		},
		{
			name:  "QuotedBraceInProse",
			input: `Use the "{" format: ` + validPlanJSON,
			want:  validPlanJSON,
		},
		{
			name:  "EmoticonBrace",
			input: "Enjoy :{ " + validPlanJSON,
			want:  validPlanJSON,
		},
		{
			name:    "NoBrace",
			input:   "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("RepairsTrailingComma", func(t *testing.T) {
		got, err := ExtractJSONObject(`Plan: {"a": 1, "b": [1, 2,],}`)
		require.NoError(t, err)

		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(got), &v))
		assert.Equal(t, 1.0, v["a"])
	})

	t.Run("RepairsTruncatedObject", func(t *testing.T) {
		got, err := ExtractJSONObject(`{"a": 1, "b": "tex`)
		require.NoError(t, err)
		assert.True(t, json.Valid([]byte(got)))
	})
}

func TestParseMealPlan(t *testing.T) {
	t.Run("RecomputesTotal", func(t *testing.T) {
		text := `{
			"breakfast": {"name": "A", "description": "a", "calories": 300, "items": ["x"]},
			"lunch": {"name": "B", "description": "b", "calories": 400, "items": ["y"]},
			"dinner": {"name": "C", "description": "c", "calories": 500, "items": ["z"]},
			"totalCalories": 9999
		}`
		parsed, err := parseMealPlan(text)
		require.NoError(t, err)
		assert.Equal(t, 1200.0, parsed.Plan.TotalCalories)
		require.NotNil(t, parsed.ReportedTotal)
		assert.Equal(t, 9999.0, *parsed.ReportedTotal)
		assert.Empty(t, parsed.Plan.ID)
		assert.Empty(t, parsed.Plan.Date)
	})

	t.Run("MissingTotal", func(t *testing.T) {
		text := `{"breakfast": {"calories": 100}, "lunch": {"calories": 200}, "dinner": {"calories": 300}}`
		parsed, err := parseMealPlan(text)
		require.NoError(t, err)
		assert.Equal(t, 600.0, parsed.Plan.TotalCalories)
		assert.Nil(t, parsed.ReportedTotal)
		assert.Equal(t, []string{}, parsed.Plan.Dinner.Items)
	})

	t.Run("StringAndNullCalories", func(t *testing.T) {
		text := `{"breakfast": {"calories": "350 kcal"}, "lunch": {"calories": "420.5"}, "dinner": {"calories": null}}`
		plan, err := ParseMealPlan(text)
		require.NoError(t, err)
		assert.Equal(t, 350.0, plan.Breakfast.Calories)
		assert.Equal(t, 420.5, plan.Lunch.Calories)
		assert.Equal(t, 0.0, plan.Dinner.Calories)
		assert.Equal(t, 770.5, plan.TotalCalories)
	})

	t.Run("NonNumericCalories", func(t *testing.T) {
		text := `{"breakfast": {"calories": "lots"}, "lunch": {"calories": 1}, "dinner": {"calories": 1}}`
		_, err := ParseMealPlan(text)
		assert.Error(t, err)
	})

	t.Run("NegativeCalories", func(t *testing.T) {
		text := `{"breakfast": {"calories": -5}, "lunch": {"calories": 1}, "dinner": {"calories": 1}}`
		_, err := ParseMealPlan(text)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative calories")
	})

	t.Run("MissingSlots", func(t *testing.T) {
		_, err := ParseMealPlan(`{"breakfast": {"calories": 100}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing lunch, dinner")
	})

	t.Run("StrayBracesBeforePlan", func(t *testing.T) {
		for _, prefix := range []string{"Sure { here is the plan: ", `Use the "{" format: `, "Enjoy :{ "} {
			plan, err := ParseMealPlan(prefix + validPlanJSON)
			require.NoError(t, err, prefix)
			assert.Equal(t, 1200.0, plan.TotalCalories)
			assert.Equal(t, "Dal", plan.Lunch.Name)
		}
	})

	t.Run("TruncatedPlanWithClosedMeals", func(t *testing.T) {
		text := `{"breakfast": {"calories": 100}, "lunch": {"calories": 200}, "dinner": {"calories": 300}`
		plan, err := ParseMealPlan(text)
		require.NoError(t, err)
		assert.Equal(t, 600.0, plan.TotalCalories)
	})

	t.Run("ReportsEmptyItems", func(t *testing.T) {
		text := `{"breakfast": {"calories": 100, "items": ["x"]}, "lunch": {"calories": 200, "items": []}, "dinner": {"calories": 300}}`
		parsed, err := parseMealPlan(text)
		require.NoError(t, err)
		assert.Equal(t, []string{"lunch", "dinner"}, parsed.EmptyItems)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		_, err := ParseMealPlan("no json here")
		assert.Error(t, err)
	})
}
