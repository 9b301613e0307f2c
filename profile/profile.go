// Package profile persists the traveler's onboarding answers and session
// state as a TOML file, the app's lightweight local key-value layer.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"
)

// Profile holds the traveler's onboarding answers.
type Profile struct {
	TravelerName   string `mapstructure:"traveler_name"`
	HomeAirport    string `mapstructure:"home_airport"`
	CabinClass     string `mapstructure:"cabin_class"`
	BudgetCents    int64  `mapstructure:"budget_cents"`
	OnboardingDone bool   `mapstructure:"onboarding_done"`
}

// Session holds state restored between launches.
type Session struct {
	LastActiveOffer string `mapstructure:"last_active_offer"`
	LastActiveIndex int    `mapstructure:"last_active_index"`
}

// Store is the file-backed profile/session store.
type Store struct {
	viper *viper.Viper

	Profile Profile `mapstructure:"profile"`
	Session Session `mapstructure:"session"`
}

// Open loads the store from dir/profile.toml, creating it with defaults
// when missing.
func Open(dir string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "profile.toml"))
	v.SetConfigType("toml")

	v.SetDefault("profile.cabin_class", "economy")
	v.SetDefault("profile.onboarding_done", false)
	v.SetDefault("session.last_active_index", 0)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading profile: %w", err)
		}
		if err := v.WriteConfig(); err != nil {
			return nil, fmt.Errorf("creating profile file: %w", err)
		}
	}

	store := &Store{viper: v}
	if err := v.Unmarshal(store); err != nil {
		return nil, fmt.Errorf("unmarshalling profile: %w", err)
	}
	return store, nil
}

// SaveProfile persists the traveler profile.
func (s *Store) SaveProfile(p Profile) error {
	s.viper.Set("profile", p)
	if err := s.viper.WriteConfig(); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	if err := s.viper.Unmarshal(s); err != nil {
		return fmt.Errorf("unmarshalling profile: %w", err)
	}
	return nil
}

// SaveSession persists the session state.
func (s *Store) SaveSession(sess Session) error {
	s.viper.Set("session", sess)
	if err := s.viper.WriteConfig(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := s.viper.Unmarshal(s); err != nil {
		return fmt.Errorf("unmarshalling session: %w", err)
	}
	return nil
}
