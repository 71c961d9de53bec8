// Package settings holds the player's preference bag.
//
// Only StrictMode affects the game engine; the other flags are stored on
// behalf of renderers and passed through untouched.
package settings

import "encoding/json"

// Settings is the persisted preference bag.
type Settings struct {
	StrictMode   bool `json:"strictMode"`
	DarkTheme    bool `json:"darkTheme"`
	HighContrast bool `json:"highContrast"`
	ReduceMotion bool `json:"reduceMotion"`
	SoundEffects bool `json:"soundEffects"`
}

// Defaults returns the settings a new player starts with.
func Defaults() Settings {
	return Settings{
		DarkTheme:    true,
		SoundEffects: true,
	}
}

// Decode overlays a stored blob on Defaults, so keys missing from older
// blobs keep their default value.
func Decode(b []byte) (Settings, error) {
	s := Defaults()
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Reset restores Defaults.
func (s *Settings) Reset() { *s = Defaults() }
