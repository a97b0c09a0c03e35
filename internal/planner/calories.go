package planner

import "strconv"

// Height is not collected, so the estimate assumes these reference heights.
const (
	referenceHeightMaleCm  = 170
	referenceHeightOtherCm = 160

	goalAdjustmentKcal = 500
)

// CalorieTarget estimates the daily calorie ceiling from the Mifflin-St Jeor
// basal metabolic rate, shifted by 500 kcal for weight loss or gain.
func CalorieTarget(p UserProfile) float64 {
	weight := p.Weight
	age := float64(p.Age)

	var target float64
	if p.Gender == GenderMale {
		target = 10*weight + 6.25*referenceHeightMaleCm - 5*age + 5
	} else {
		target = 10*weight + 6.25*referenceHeightOtherCm - 5*age - 161
	}

	switch p.Goal {
	case GoalWeightLoss:
		target -= goalAdjustmentKcal
	case GoalWeightGain:
		target += goalAdjustmentKcal
	}
	return target
}

// formatNumber prints v with the fewest digits that round-trip, e.g. 1617.5
// or 70, never in exponent form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
