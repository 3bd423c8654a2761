package tasker

import "errors"

var (
	// Configuration errors.
	ErrInvalidConcurrency = errors.New("tasker: concurrency must be positive")
	ErrInvalidTimeout     = errors.New("tasker: step timeout must not be negative")
	ErrNilRegistry        = errors.New("tasker: nil registry")
	ErrNilLogger          = errors.New("tasker: nil logger")
	ErrNilExtension       = errors.New("tasker: nil extension")

	// Lifecycle errors.
	ErrAlreadyRunning = errors.New("tasker: already running")
	ErrShutdown       = errors.New("tasker: shut down")
)
