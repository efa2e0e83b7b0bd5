package types

import "fmt"

// Settings configure a run of an experiment
type Settings struct {
	Seed int64 `yaml:"seed"`
	// log progress every RecordFrequency episodes
	RecordFrequency int    `yaml:"rec_freq"`
	OutputDir       string `yaml:"dir_path"`
	Debug           bool   `yaml:"debug"`
	// episodes per iteration
	Episodes int `yaml:"episodes"`
	// maximum number of steps of an episode
	Horizon        int  `yaml:"horizon"`
	Iterations     int  `yaml:"iterations"`
	SaveTrajectory bool `yaml:"save_trajectory"`
}

// DefaultSettings mirror the defaults of the command line
func DefaultSettings() *Settings {
	return &Settings{
		Seed:            1,
		RecordFrequency: 1,
		OutputDir:       "results",
		Debug:           false,
		Episodes:        100,
		Horizon:         5,
		Iterations:      1,
		SaveTrajectory:  false,
	}
}

// Validate checks that the settings can drive an experiment
func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: missing settings", ErrInvalidConfiguration)
	}
	if s.Episodes <= 0 {
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidConfiguration, s.Episodes)
	}
	if s.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfiguration, s.Iterations)
	}
	if s.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidConfiguration, s.Horizon)
	}
	if s.RecordFrequency < 0 {
		return fmt.Errorf("%w: record frequency cannot be negative, got %d", ErrInvalidConfiguration, s.RecordFrequency)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("%w: missing output directory", ErrInvalidConfiguration)
	}
	return nil
}

// Copy returns an independent copy
func (s *Settings) Copy() *Settings {
	c := *s
	return &c
}
