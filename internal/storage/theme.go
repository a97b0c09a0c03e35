package storage

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Theme is the color scheme of the interface.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemePreference is the stored theme choice. When FollowSystem is set the
// host's color scheme wins over Theme.
type ThemePreference struct {
	Theme        Theme
	FollowSystem bool
}

// DefaultThemePreference is used for missing or unreadable values.
var DefaultThemePreference = ThemePreference{Theme: ThemeLight, FollowSystem: true}

// Effective resolves the theme to display given the host's color scheme.
func (p ThemePreference) Effective(system Theme) Theme {
	if p.FollowSystem {
		if _, err := ParseTheme(string(system)); err == nil {
			return system
		}
	}
	return p.Theme
}

// GetThemePreference loads the theme preference. Invalid stored values fall
// back to the defaults.
func (s *Store) GetThemePreference(ctx context.Context) ThemePreference {
	pref := DefaultThemePreference

	if raw, ok := s.kv.GetString(ctx, KeyFollowSystemTheme); ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			pref.FollowSystem = v
		} else {
			s.log.Warn("Ignoring invalid follow system theme value", zap.String("value", raw))
		}
	}
	if raw, ok := s.kv.GetString(ctx, KeyTheme); ok {
		if t, err := ParseTheme(raw); err == nil {
			pref.Theme = t
		} else {
			s.log.Warn("Ignoring invalid theme value", zap.String("value", raw))
		}
	}
	return pref
}

// SetTheme stores an explicit theme.
func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveTheme, err)
	}
	if !s.kv.SetString(ctx, KeyTheme, string(theme)) {
		return ErrSaveTheme
	}
	return nil
}

// SetFollowSystemTheme stores whether the host color scheme should be used.
func (s *Store) SetFollowSystemTheme(ctx context.Context, follow bool) error {
	if !s.kv.SetString(ctx, KeyFollowSystemTheme, strconv.FormatBool(follow)) {
		return ErrSaveTheme
	}
	return nil
}

// ToggleTheme switches to the opposite of the stored theme and stops following
// the system scheme. It returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.GetThemePreference(ctx).Theme.Opposite()
	ok := s.kv.SetMany(ctx, map[string]string{
		KeyTheme:             string(next),
		KeyFollowSystemTheme: strconv.FormatBool(false),
	})
	if !ok {
		return "", ErrSaveTheme
	}
	return next, nil
}
