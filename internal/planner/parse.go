package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var errNoJSONObject = errors.New("no JSON object found in response")

// ExtractJSONObject returns the first balanced {...} span of text that is valid
// JSON, trying every '{' in order. Braces inside string literals are ignored,
// so commentary before or after the object, a stray brace in the prose, or a
// second object later in the text does not leak into the result. When no span
// is valid JSON, the span at the first '{' (for truncated output, everything
// from it) gets one repair attempt.
func ExtractJSONObject(text string) (string, error) {
	valid, first := scanSpans(text)
	if len(valid) > 0 {
		return valid[0], nil
	}
	if first == "" {
		return "", errNoJSONObject
	}
	return repairObject(first)
}

// scanSpans returns every closed span of text that is valid JSON, ordered by
// its opening brace, and the span opening at the first '{'.
func scanSpans(text string) (valid []string, first string) {
	for i := 0; i < len(text); {
		start := strings.IndexByte(text[i:], '{')
		if start < 0 {
			break
		}
		start += i

		end, closed := scanObject(text, start)
		span := text[start:end]
		if first == "" {
			first = span
		}
		if closed && json.Valid([]byte(span)) {
			valid = append(valid, span)
		}
		i = start + 1
	}
	return valid, first
}

func repairObject(span string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		return "", fmt.Errorf("malformed JSON object: %w", err)
	}
	repaired = strings.TrimSpace(repaired)
	if !strings.HasPrefix(repaired, "{") || !json.Valid([]byte(repaired)) {
		return "", fmt.Errorf("malformed JSON object")
	}
	return repaired, nil
}

// scanObject returns the index just past the brace closing the object that
// opens at start. closed is false when text ends first.
func scanObject(text string, start int) (end int, closed bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return len(text), false
}

// calorieValue accepts a JSON number, a numeric string or null.
type calorieValue float64

func (c *calorieValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "kcal"))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("calories %q is not a number", s)
		}
		*c = calorieValue(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = calorieValue(v)
	return nil
}

type rawMeal struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Calories    calorieValue `json:"calories"`
	Items       []string     `json:"items"`
}

type rawMealPlan struct {
	Breakfast     *rawMeal      `json:"breakfast"`
	Lunch         *rawMeal      `json:"lunch"`
	Dinner        *rawMeal      `json:"dinner"`
	TotalCalories *calorieValue `json:"totalCalories"`
}

type parsedPlan struct {
	Plan MealPlan
	// ReportedTotal is the model's own totalCalories, nil when omitted.
	ReportedTotal *float64
	// EmptyItems names the slots that came without any items.
	EmptyItems []string
}

// ParseMealPlan extracts a meal plan from free-form model output. The returned
// plan has no ID or Date, and its TotalCalories is the sum of the three meals.
func ParseMealPlan(text string) (*MealPlan, error) {
	parsed, err := parseMealPlan(text)
	if err != nil {
		return nil, err
	}
	return &parsed.Plan, nil
}

// parseMealPlan tries the valid spans in order and keeps the first one that
// decodes as a plan. The repaired first span is the last resort.
func parseMealPlan(text string) (parsedPlan, error) {
	valid, first := scanSpans(text)
	if first == "" {
		return parsedPlan{}, errNoJSONObject
	}

	var firstErr error
	for _, object := range valid {
		parsed, err := decodeMealPlan(object)
		if err == nil {
			return parsed, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	repaired, err := repairObject(first)
	if err == nil {
		var parsed parsedPlan
		parsed, err = decodeMealPlan(repaired)
		if err == nil {
			return parsed, nil
		}
	}
	if firstErr == nil {
		firstErr = err
	}
	return parsedPlan{}, firstErr
}

func decodeMealPlan(object string) (parsedPlan, error) {
	var raw rawMealPlan
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return parsedPlan{}, fmt.Errorf("failed to decode meal plan: %w", err)
	}

	var missing []string
	if raw.Breakfast == nil {
		missing = append(missing, "breakfast")
	}
	if raw.Lunch == nil {
		missing = append(missing, "lunch")
	}
	if raw.Dinner == nil {
		missing = append(missing, "dinner")
	}
	if len(missing) > 0 {
		return parsedPlan{}, fmt.Errorf("invalid meal plan format: missing %s", strings.Join(missing, ", "))
	}

	plan := MealPlan{
		Breakfast: raw.Breakfast.toMeal(),
		Lunch:     raw.Lunch.toMeal(),
		Dinner:    raw.Dinner.toMeal(),
	}
	out := parsedPlan{Plan: plan}
	for _, slot := range []struct {
		name string
		meal Meal
	}{{"breakfast", plan.Breakfast}, {"lunch", plan.Lunch}, {"dinner", plan.Dinner}} {
		if slot.meal.Calories < 0 {
			return parsedPlan{}, fmt.Errorf("invalid meal plan format: %s has negative calories", slot.name)
		}
		if len(slot.meal.Items) == 0 {
			out.EmptyItems = append(out.EmptyItems, slot.name)
		}
	}
	out.Plan.TotalCalories = plan.MealsCalories()

	if raw.TotalCalories != nil {
		reported := float64(*raw.TotalCalories)
		out.ReportedTotal = &reported
	}
	return out, nil
}

func (m *rawMeal) toMeal() Meal {
	items := m.Items
	if items == nil {
		items = []string{}
	}
	return Meal{
		Name:        m.Name,
		Description: m.Description,
		Calories:    float64(m.Calories),
		Items:       items,
	}
}
