package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, "economy", store.Profile.CabinClass)
	require.False(t, store.Profile.OnboardingDone)
	require.Zero(t, store.Session.LastActiveIndex)

	require.FileExists(t, filepath.Join(dir, "profile.toml"))
}

func TestProfileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveProfile(Profile{
		TravelerName:   "Alex",
		HomeAirport:    "SFO",
		CabinClass:     "premium_economy",
		BudgetCents:    120000,
		OnboardingDone: true,
	}))
	require.Equal(t, "SFO", store.Profile.HomeAirport)

	reopened, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, "Alex", reopened.Profile.TravelerName)
	require.Equal(t, "premium_economy", reopened.Profile.CabinClass)
	require.Equal(t, int64(120000), reopened.Profile.BudgetCents)
	require.True(t, reopened.Profile.OnboardingDone)
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveSession(Session{
		LastActiveOffer: "0192f7a0-5cae-7f6e-b4a1-3a1f1c2d3e4f",
		LastActiveIndex: 3,
	}))

	reopened, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, 3, reopened.Session.LastActiveIndex)
	require.Equal(t, "0192f7a0-5cae-7f6e-b4a1-3a1f1c2d3e4f", reopened.Session.LastActiveOffer)
}
