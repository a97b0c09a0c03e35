package planner

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type DietaryPreference string

const (
	DietVegetarian    DietaryPreference = "vegetarian"
	DietNonVegetarian DietaryPreference = "non-vegetarian"
)

type Goal string

const (
	GoalWeightLoss Goal = "weight-loss"
	GoalMaintain   Goal = "maintain"
	GoalWeightGain Goal = "weight-gain"
)

type CuisineType string

const (
	CuisineIndian        CuisineType = "indian"
	CuisineWestern       CuisineType = "western"
	CuisineMediterranean CuisineType = "mediterranean"
	CuisineAsian         CuisineType = "asian"
	CuisineMixed         CuisineType = "mixed"
)

// UserProfile is the single profile collected during onboarding.
type UserProfile struct {
	Name              string            `json:"name" validate:"required,notblank"`
	Age               int               `json:"age" validate:"gte=1,lte=119"`
	Gender            Gender            `json:"gender" validate:"oneof=male female other"`
	Weight            float64           `json:"weight" validate:"gte=20,lt=500"`
	DietaryPreference DietaryPreference `json:"dietaryPreference" validate:"oneof=vegetarian non-vegetarian"`
	Goal              Goal              `json:"goal" validate:"oneof=weight-loss maintain weight-gain"`
	CuisineType       CuisineType       `json:"cuisineType" validate:"oneof=indian western mediterranean asian mixed"`
}

// Meal is one slot of a daily plan.
type Meal struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Calories    float64  `json:"calories"`
	Items       []string `json:"items"`
}

// MealPlan is a generated three-meal day. It is never mutated after creation.
type MealPlan struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Breakfast     Meal    `json:"breakfast"`
	Lunch         Meal    `json:"lunch"`
	Dinner        Meal    `json:"dinner"`
	TotalCalories float64 `json:"totalCalories"`
}

// MealsCalories sums the calories of the three meals.
func (p MealPlan) MealsCalories() float64 {
	return p.Breakfast.Calories + p.Lunch.Calories + p.Dinner.Calories
}

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid user profile")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func profileValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Validate checks every field against the onboarding rules.
func (u UserProfile) Validate() error {
	err := profileValidator().Struct(u)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(fields, ", "))
}
