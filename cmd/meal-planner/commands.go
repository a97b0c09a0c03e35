package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"meal-planner/internal/planner"
	"meal-planner/internal/storage"
)

type profileFlags struct {
	name    string
	age     int
	gender  string
	weight  float64
	diet    string
	goal    string
	cuisine string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Your name")
	cmd.Flags().IntVar(&f.age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&f.gender, "gender", string(planner.GenderMale), "male, female or other")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "Weight in kg")
	cmd.Flags().StringVar(&f.diet, "diet", string(planner.DietNonVegetarian), "vegetarian or non-vegetarian")
	cmd.Flags().StringVar(&f.goal, "goal", string(planner.GoalMaintain), "weight-loss, maintain or weight-gain")
	cmd.Flags().StringVar(&f.cuisine, "cuisine", string(planner.CuisineMixed), "indian, western, mediterranean, asian or mixed")
}

var profileFlagNames = []string{"name", "age", "gender", "weight", "diet", "goal", "cuisine"}

func (f *profileFlags) anyChanged(cmd *cobra.Command) bool {
	for _, name := range profileFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies the flags the user set onto p.
func (f *profileFlags) apply(cmd *cobra.Command, p *planner.UserProfile) {
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = f.name
	}
	if changed("age") {
		p.Age = f.age
	}
	if changed("gender") {
		p.Gender = planner.Gender(f.gender)
	}
	if changed("weight") {
		p.Weight = f.weight
	}
	if changed("diet") {
		p.DietaryPreference = planner.DietaryPreference(f.diet)
	}
	if changed("goal") {
		p.Goal = planner.Goal(f.goal)
	}
	if changed("cuisine") {
		p.CuisineType = planner.CuisineType(f.cuisine)
	}
}

func (f *profileFlags) profile() planner.UserProfile {
	return planner.UserProfile{
		Name:              f.name,
		Age:               f.age,
		Gender:            planner.Gender(f.gender),
		Weight:            f.weight,
		DietaryPreference: planner.DietaryPreference(f.diet),
		Goal:              planner.Goal(f.goal),
		CuisineType:       planner.CuisineType(f.cuisine),
	}
}

func (c *CLI) newOnboardCommand() *cobra.Command {
	var flags profileFlags
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create your profile",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			profile := flags.profile()
			if err := c.app.CompleteOnboarding(cmd.Context(), profile); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Welcome, %s!\n", profile.Name)
			fmt.Fprintf(out, "Daily calorie target: %s kcal\n", formatKcal(planner.CalorieTarget(profile)))
			return nil
		}),
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func (c *CLI) newProfileCommand() *cobra.Command {
	var flags profileFlags
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile, or update it with flags",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := c.app.Store().GetUserProfile(ctx)
			if err != nil {
				return err
			}
			if current == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile found. Run 'meal-planner onboard' first.")
				return nil
			}

			if flags.anyChanged(cmd) {
				updated := *current
				flags.apply(cmd, &updated)
				if err := c.app.UpdateProfile(ctx, updated); err != nil {
					return err
				}
				current = &updated
			}
			printProfile(cmd.OutOrStdout(), *current)
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and save today's meal plan",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			plan, err := c.app.GenerateAndSave(cmd.Context())
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), *plan)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&c.mock, "mock", false, "Use template plans instead of the remote model")
	return cmd
}

func (c *CLI) newPlansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List saved meal plans, newest first",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			plans, err := c.app.MealPlans(cmd.Context())
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meal plans yet. Run 'meal-planner generate'.")
				return nil
			}
			printPlanList(cmd.OutOrStdout(), plans)
			return nil
		}),
	}
}

func (c *CLI) newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id>",
		Short: "Show one saved meal plan",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			plan := c.app.MealPlan(cmd.Context(), args[0])
			if plan == nil {
				return fmt.Errorf("meal plan %q not found", args[0])
			}
			printPlan(cmd.OutOrStdout(), *plan)
			return nil
		}),
	}
}

func (c *CLI) newResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete your profile, meal plans and preferences",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("this deletes all data; pass --yes to confirm")
			}
			if err := c.app.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

func (c *CLI) newThemeCommand() *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:       "theme [light|dark|toggle|system]",
		Short:     "Show or change the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle", "system"},
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := c.app.Store()
			host, err := systemTheme(system)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				switch args[0] {
				case "toggle":
					_, err = store.ToggleTheme(ctx)
				case "system":
					err = store.SetFollowSystemTheme(ctx, true)
				default:
					var theme storage.Theme
					theme, err = storage.ParseTheme(args[0])
					if err != nil {
						return err
					}
					if err = store.SetTheme(ctx, theme); err == nil {
						err = store.SetFollowSystemTheme(ctx, false)
					}
				}
				if err != nil {
					return err
				}
			}

			pref := store.GetThemePreference(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s (follow system: %t, effective: %s)\n",
				pref.Theme, pref.FollowSystem, pref.Effective(host))
			return nil
		}),
	}
	cmd.Flags().StringVar(&system, "system", "", "Host color scheme (light|dark), defaults to $COLORFGBG")
	return cmd
}

// systemTheme resolves the host color scheme from the flag value, falling
// back to the terminal's COLORFGBG. An unknown scheme yields "".
func systemTheme(flag string) (storage.Theme, error) {
	if flag != "" {
		return storage.ParseTheme(flag)
	}
	fields := strings.Split(os.Getenv("COLORFGBG"), ";")
	bg, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return "", nil
	}
	if bg == 7 || bg >= 9 {
		return storage.ThemeLight, nil
	}
	return storage.ThemeDark, nil
}

func (c *CLI) newUsageCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show generation and token usage per day",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			usage, err := c.app.Usage(cmd.Context(), days)
			if err != nil {
				return err
			}
			printUsage(cmd.OutOrStdout(), usage)
			if size, err := c.dataSize(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\nDatabase size: %s\n", size)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to report")
	return cmd
}

func (c *CLI) newMetricsCleanupCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove old execution metric records",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			affected, err := c.app.CleanupMetrics(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old metric records.\n", affected)
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 30, "Keep records for the last N days")
	return cmd
}
