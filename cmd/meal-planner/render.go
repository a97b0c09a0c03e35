package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"meal-planner/internal/config"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
)

func formatKcal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDate prints the plan's timestamp in local time, or the raw value when
// it does not parse.
func formatDate(date string) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return t.Local().Format("Mon, 02 Jan 2006 15:04")
}

func printProfile(w io.Writer, p planner.UserProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Age:\t%d\n", p.Age)
	fmt.Fprintf(tw, "Gender:\t%s\n", p.Gender)
	fmt.Fprintf(tw, "Weight:\t%s kg\n", formatKcal(p.Weight))
	fmt.Fprintf(tw, "Diet:\t%s\n", p.DietaryPreference)
	fmt.Fprintf(tw, "Goal:\t%s\n", p.Goal)
	fmt.Fprintf(tw, "Cuisine:\t%s\n", p.CuisineType)
	fmt.Fprintf(tw, "Calorie target:\t%s kcal\n", formatKcal(planner.CalorieTarget(p)))
	tw.Flush()
}

func printPlan(w io.Writer, plan planner.MealPlan) {
	fmt.Fprintf(w, "Meal plan %s\n", plan.ID)
	fmt.Fprintf(w, "Created %s\n", formatDate(plan.Date))

	for _, slot := range []struct {
		label string
		meal  planner.Meal
	}{
		{"Breakfast", plan.Breakfast},
		{"Lunch", plan.Lunch},
		{"Dinner", plan.Dinner},
	} {
		fmt.Fprintf(w, "\n=== %s: %s (%s kcal) ===\n", strings.ToUpper(slot.label), slot.meal.Name, formatKcal(slot.meal.Calories))
		if slot.meal.Description != "" {
			fmt.Fprintln(w, slot.meal.Description)
		}
		for _, item := range slot.meal.Items {
			fmt.Fprintf(w, "- %s\n", item)
		}
	}

	fmt.Fprintf(w, "\nTotal: %s kcal\n", formatKcal(plan.TotalCalories))
}

func printPlanList(w io.Writer, plans []planner.MealPlan) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTOTAL KCAL")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, formatDate(p.Date), formatKcal(p.TotalCalories))
	}
	tw.Flush()
}

func printUsage(w io.Writer, usage []metrics.DailyUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "No generations recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tRUNS\tFAILED\tPROMPT TOKENS\tCOMPLETION TOKENS")
	for _, u := range usage {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", u.Date, u.TotalExecution, u.Failures, u.TotalPrompt, u.TotalCompletion)
	}
	tw.Flush()
}

func (c *CLI) dataSize() (string, error) {
	if c.cfg == nil || c.cfg.Storage.Driver != config.DriverSQLite {
		return "", fmt.Errorf("no local database")
	}
	size, err := metrics.DataSize(c.cfg.Storage.SQLitePath)
	if err != nil {
		return "", err
	}
	return metrics.FormatBytes(size), nil
}
