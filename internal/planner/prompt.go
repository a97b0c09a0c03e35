package planner

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed meal_plan_prompt.md
var mealPlanPrompt string

var mealPlanTemplate = template.Must(template.New("mealplan").Parse(mealPlanPrompt))

type mealPlanPromptData struct {
	DietType      string
	CalorieTarget string
	Weight        string
	Gender        string
	WeightGoal    string
	Cuisine       string
}

// BuildPrompt renders the generation instruction for a profile. The cuisine
// clause is left out for mixed cuisine.
func BuildPrompt(p UserProfile) (string, error) {
	data := mealPlanPromptData{
		DietType:      string(DietNonVegetarian),
		CalorieTarget: formatNumber(CalorieTarget(p)),
		Weight:        formatNumber(p.Weight),
		Gender:        string(p.Gender),
		WeightGoal:    weightGoalPhrase(p.Goal),
	}
	if p.DietaryPreference == DietVegetarian {
		data.DietType = string(DietVegetarian)
	}
	if p.CuisineType != CuisineMixed {
		data.Cuisine = string(p.CuisineType)
	}

	var buf bytes.Buffer
	if err := mealPlanTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func weightGoalPhrase(g Goal) string {
	switch g {
	case GoalWeightLoss:
		return "lose weight"
	case GoalWeightGain:
		return "gain weight"
	default:
		return "maintain weight"
	}
}
