package planner

import "time"

// mockGoalAdjustmentKcal is spread evenly over the three meals.
const mockGoalAdjustmentKcal = 200

type mealTemplates struct {
	breakfast, lunch, dinner Meal
}

var vegetarianTemplates = mealTemplates{
	breakfast: Meal{
		Name:        "Vegetarian Breakfast Bowl",
		Description: "Nutritious breakfast bowl with yogurt, fruits, and granola",
		Calories:    350,
		Items:       []string{"Greek yogurt", "Mixed berries", "Granola", "Honey", "Chia seeds"},
	},
	lunch: Meal{
		Name:        "Mediterranean Salad Bowl",
		Description: "Fresh Mediterranean salad with falafel and tahini dressing",
		Calories:    450,
		Items:       []string{"Mixed greens", "Falafel", "Cherry tomatoes", "Cucumber", "Feta cheese", "Tahini dressing"},
	},
	dinner: Meal{
		Name:        "Vegetable Stir-Fry with Tofu",
		Description: "Asian-inspired vegetable stir-fry with tofu and brown rice",
		Calories:    500,
		Items:       []string{"Tofu", "Mixed vegetables", "Brown rice", "Soy sauce", "Ginger"},
	},
}

var nonVegetarianTemplates = mealTemplates{
	breakfast: Meal{
		Name:        "Protein Breakfast Plate",
		Description: "High protein breakfast with eggs, avocado, and whole grain toast",
		Calories:    400,
		Items:       []string{"Scrambled eggs", "Avocado slices", "Whole grain toast", "Turkey bacon"},
	},
	lunch: Meal{
		Name:        "Grilled Chicken Salad",
		Description: "Lean protein salad with grilled chicken and vegetables",
		Calories:    500,
		Items:       []string{"Grilled chicken breast", "Mixed greens", "Bell peppers", "Cucumber", "Olive oil dressing"},
	},
	dinner: Meal{
		Name:        "Baked Salmon with Vegetables",
		Description: "Omega-rich salmon with roasted vegetables",
		Calories:    550,
		Items:       []string{"Baked salmon", "Asparagus", "Sweet potato", "Olive oil", "Lemon"},
	},
}

// MockMealPlan builds a plan from fixed templates without calling a model.
// Only the dietary preference picks the templates; the goal shifts every meal
// by a third of 200 kcal. Output differs between calls only in ID and Date.
func MockMealPlan(p UserProfile) *MealPlan {
	templates := nonVegetarianTemplates
	if p.DietaryPreference == DietVegetarian {
		templates = vegetarianTemplates
	}

	var adjustment float64
	switch p.Goal {
	case GoalWeightLoss:
		adjustment = -mockGoalAdjustmentKcal
	case GoalWeightGain:
		adjustment = mockGoalAdjustmentKcal
	}

	plan := &MealPlan{
		ID:        NewPlanID(),
		Date:      Timestamp(time.Now()),
		Breakfast: templates.breakfast.adjusted(adjustment / 3),
		Lunch:     templates.lunch.adjusted(adjustment / 3),
		Dinner:    templates.dinner.adjusted(adjustment / 3),
	}
	plan.TotalCalories = plan.MealsCalories()
	return plan
}

// adjusted returns a copy with its own Items slice so templates stay untouched.
func (m Meal) adjusted(delta float64) Meal {
	m.Calories += delta
	m.Items = append([]string(nil), m.Items...)
	return m
}
