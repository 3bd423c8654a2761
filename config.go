package tasker

import "time"

// Config holds configuration for a Tasker.
type Config struct {
	// Concurrency is the number of steps executed in parallel by Run.
	Concurrency int

	// StepTimeout bounds a single handler call. Zero disables the deadline.
	StepTimeout time.Duration

	// ShutdownTimeout is the maximum time Shutdown waits for Run to drain.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:     10,
		StepTimeout:     0,
		ShutdownTimeout: 30 * time.Second,
	}
}

func (c Config) validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.StepTimeout < 0 || c.ShutdownTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
