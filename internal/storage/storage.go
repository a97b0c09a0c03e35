// Package storage persists the user profile, the meal plan history and the
// theme preference on top of a kvstore.Adapter.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"meal-planner/internal/kvstore"
	"meal-planner/internal/logger"
	"meal-planner/internal/planner"
)

// Keys of the persisted records.
const (
	KeyUserProfile         = "USER_PROFILE"
	KeyMealPlans           = "MEAL_PLANS"
	KeyOnboardingCompleted = "ONBOARDING_COMPLETED"
	KeyTheme               = "THEME"
	KeyFollowSystemTheme   = "FOLLOW_SYSTEM_THEME"
)

// AllKeys lists every key owned by the Store, in removal order.
var AllKeys = []string{
	KeyUserProfile,
	KeyMealPlans,
	KeyOnboardingCompleted,
	KeyTheme,
	KeyFollowSystemTheme,
}

var (
	ErrSaveProfile  = errors.New("failed to save user profile")
	ErrSaveMealPlan = errors.New("failed to save meal plan")
	ErrSaveTheme    = errors.New("failed to save theme preference")
	ErrClearData    = errors.New("failed to clear data")
)

const flagTrue = "true"

// Store is the single owner of the persisted profile and plan list.
type Store struct {
	kv  *kvstore.Adapter
	log *zap.Logger

	// mu serialises writers inside this process; the substrate's atomic
	// Update covers writers in other processes.
	mu sync.Mutex
}

// NewStore creates a Store on top of kv.
func NewStore(kv *kvstore.Adapter, log *zap.Logger) *Store {
	return &Store{kv: kv, log: logger.OrNop(log)}
}

// SaveUserProfile stores the profile and marks onboarding as completed in a
// single atomic write.
func (s *Store) SaveUserProfile(ctx context.Context, profile planner.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveProfile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.kv.SetMany(ctx, map[string]string{
		KeyUserProfile:         string(data),
		KeyOnboardingCompleted: flagTrue,
	})
	if !ok {
		return ErrSaveProfile
	}
	return nil
}

// GetUserProfile returns the stored profile, or nil when none was saved.
// Corrupt stored data is returned as an error wrapping kvstore.ErrCorrupt.
func (s *Store) GetUserProfile(ctx context.Context) (*planner.UserProfile, error) {
	return kvstore.GetJSON[planner.UserProfile](ctx, s.kv, KeyUserProfile)
}

// IsOnboardingCompleted reports whether onboarding finished. A stored profile
// without the flag counts as completed, and the flag is rewritten.
func (s *Store) IsOnboardingCompleted(ctx context.Context) bool {
	flag, _ := s.kv.GetString(ctx, KeyOnboardingCompleted)
	if flag == flagTrue {
		return true
	}

	// The repair must not land after a concurrent ClearAllData.
	s.mu.Lock()
	defer s.mu.Unlock()

	flag, _ = s.kv.GetString(ctx, KeyOnboardingCompleted)
	if flag == flagTrue {
		return true
	}
	raw, ok := s.kv.GetString(ctx, KeyUserProfile)
	if !ok || raw == "" {
		return false
	}

	s.log.Warn("Profile found without onboarding flag, repairing")
	if !s.kv.SetString(ctx, KeyOnboardingCompleted, flagTrue) {
		s.log.Error("Failed to repair onboarding flag")
	}
	return true
}

// SaveMealPlan prepends plan to the stored list so the newest plan comes first.
func (s *Store) SaveMealPlan(ctx context.Context, plan planner.MealPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := kvstore.UpdateJSON(ctx, s.kv, KeyMealPlans, func(current *[]planner.MealPlan) ([]planner.MealPlan, error) {
		var existing []planner.MealPlan
		if current != nil {
			existing = *current
		}
		plans := make([]planner.MealPlan, 0, len(existing)+1)
		plans = append(plans, plan)
		return append(plans, existing...), nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveMealPlan, err)
	}
	return nil
}

// GetMealPlans returns every stored plan, newest first. The slice is empty,
// never nil, when nothing was saved.
func (s *Store) GetMealPlans(ctx context.Context) ([]planner.MealPlan, error) {
	plans, err := kvstore.GetJSON[[]planner.MealPlan](ctx, s.kv, KeyMealPlans)
	if err != nil {
		return nil, err
	}
	if plans == nil || *plans == nil {
		return []planner.MealPlan{}, nil
	}
	return *plans, nil
}

// GetMealPlanByID returns the plan with the given id, or nil when it does not
// exist or the list cannot be read.
func (s *Store) GetMealPlanByID(ctx context.Context, id string) *planner.MealPlan {
	plans, err := s.GetMealPlans(ctx)
	if err != nil {
		s.log.Error("Error getting meal plan by ID", zap.String("id", id), zap.Error(err))
		return nil
	}
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}

// ClearAllData removes the profile, the plans, the onboarding flag and the
// theme preference in one operation.
func (s *Store) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.RemoveMany(ctx, AllKeys...); err != nil {
		return fmt.Errorf("%w: %w", ErrClearData, err)
	}
	return nil
}
