// Package app wires the store, the planner and the metrics recorder into the
// flows the command line drives.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meal-planner/internal/logger"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/storage"
)

var (
	// ErrNoProfile is returned when a flow needs a profile and none was saved.
	ErrNoProfile = errors.New("no user profile found, complete onboarding first")
	// ErrMetricsUnavailable is returned by usage reports when metrics are not
	// persisted for the configured storage driver.
	ErrMetricsUnavailable = errors.New("execution metrics are only stored with the sqlite driver")
)

// App holds the application's dependencies.
type App struct {
	store        *storage.Store
	mealPlanner  *planner.Planner
	metricsStore *metrics.Store
	registry     *prometheus.Registry
	pushURL      string
	pushJob      string
	log          *zap.Logger

	closers []func() error
}

// NewApp creates an App from already built components. metricsStore may be nil.
func NewApp(store *storage.Store, mealPlanner *planner.Planner, metricsStore *metrics.Store, log *zap.Logger) *App {
	return &App{
		store:        store,
		mealPlanner:  mealPlanner,
		metricsStore: metricsStore,
		registry:     prometheus.NewRegistry(),
		log:          logger.OrNop(log),
	}
}

// Gatherer exposes the generation collectors registered by New.
func (a *App) Gatherer() prometheus.Gatherer {
	return a.registry
}

const defaultPushJob = "meal_planner"

// PushMetrics adds the gathered generation metrics to the Pushgateway group of
// the configured job. It does nothing without a URL or before any generation.
func (a *App) PushMetrics(ctx context.Context) error {
	if a.pushURL == "" {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	if len(families) == 0 {
		return nil
	}
	job := a.pushJob
	if job == "" {
		job = defaultPushJob
	}
	if err := push.New(a.pushURL, job).Gatherer(a.registry).AddContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	a.log.Debug("Pushed metrics", zap.String("url", a.pushURL), zap.Int("families", len(families)))
	return nil
}

// Store returns the underlying profile and plan store.
func (a *App) Store() *storage.Store {
	return a.store
}

// State is what the interface needs to pick its first screen.
type State struct {
	Profile             *planner.UserProfile
	OnboardingCompleted bool
	Theme               storage.ThemePreference
}

// LoadState reads the profile, the onboarding flag and the theme preference
// concurrently.
func (a *App) LoadState(ctx context.Context) (State, error) {
	var state State
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := a.store.GetUserProfile(gctx)
		if err != nil {
			return fmt.Errorf("failed to load user profile: %w", err)
		}
		state.Profile = profile
		return nil
	})
	g.Go(func() error {
		state.OnboardingCompleted = a.store.IsOnboardingCompleted(gctx)
		return nil
	})
	g.Go(func() error {
		state.Theme = a.store.GetThemePreference(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return State{}, err
	}
	return state, nil
}

// CompleteOnboarding validates and stores the first profile.
func (a *App) CompleteOnboarding(ctx context.Context, profile planner.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := a.store.SaveUserProfile(ctx, profile); err != nil {
		return err
	}
	a.log.Info("Onboarding completed", zap.String("name", profile.Name))
	return nil
}

// UpdateProfile replaces the stored profile. Onboarding must have happened.
func (a *App) UpdateProfile(ctx context.Context, profile planner.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	current, err := a.store.GetUserProfile(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNoProfile
	}
	if err := a.store.SaveUserProfile(ctx, profile); err != nil {
		return err
	}
	a.log.Info("Profile updated", zap.String("name", profile.Name))
	return nil
}

// GenerateAndSave generates a plan for the stored profile and persists it.
// A plan that fails to save is not returned.
func (a *App) GenerateAndSave(ctx context.Context) (*planner.MealPlan, error) {
	profile, err := a.store.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoProfile
	}

	plan, err := a.mealPlanner.Generate(ctx, *profile)
	if err != nil {
		return nil, err
	}
	if err := a.store.SaveMealPlan(ctx, *plan); err != nil {
		return nil, err
	}
	a.log.Info("Meal plan saved",
		zap.String("id", plan.ID),
		zap.Float64("total_calories", plan.TotalCalories),
	)
	return plan, nil
}

// MealPlans returns the plan history, newest first.
func (a *App) MealPlans(ctx context.Context) ([]planner.MealPlan, error) {
	return a.store.GetMealPlans(ctx)
}

// MealPlan returns one plan, or nil when it does not exist.
func (a *App) MealPlan(ctx context.Context, id string) *planner.MealPlan {
	return a.store.GetMealPlanByID(ctx, id)
}

// Reset removes every stored record.
func (a *App) Reset(ctx context.Context) error {
	if err := a.store.ClearAllData(ctx); err != nil {
		return err
	}
	a.log.Info("All data cleared")
	return nil
}

// Usage returns per-day generation totals for the last days.
func (a *App) Usage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	if a.metricsStore == nil {
		return nil, ErrMetricsUnavailable
	}
	return a.metricsStore.GetDailyUsage(ctx, days)
}

// CleanupMetrics removes execution metrics older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	if a.metricsStore == nil {
		return 0, ErrMetricsUnavailable
	}
	return a.metricsStore.Cleanup(ctx, days)
}

// Close releases the resources opened by New in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
