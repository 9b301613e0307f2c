// Package haptics exposes the fire-and-forget haptic trigger primitive.
// The feed engine never surfaces haptic failures; drivers return an error
// only so callers can log it.
package haptics

import "github.com/rs/zerolog"

// Level is the intensity of a haptic pulse.
type Level uint8

const (
	// Light is the subtle tick used for item transitions and taps.
	Light Level = iota + 1

	// Medium is used for double-tap confirmation.
	Medium

	// Heavy is used for long-press feedback.
	Heavy
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Light:
		return "light"
	case Medium:
		return "medium"
	case Heavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// Driver triggers haptic pulses on the host platform.
type Driver interface {
	Pulse(level Level) error
}

// Nop is a Driver that does nothing. Used on platforms without a haptic
// engine and as the engine default.
type Nop struct{}

// Pulse implements Driver.
func (Nop) Pulse(Level) error { return nil }

// Logged wraps pulses in debug log lines. Useful in the terminal demo and
// when diagnosing transition behavior.
type Logged struct {
	Log zerolog.Logger
}

// Pulse implements Driver.
func (d Logged) Pulse(level Level) error {
	d.Log.Debug().Str("level", level.String()).Msg("haptic pulse")
	return nil
}
