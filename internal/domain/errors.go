package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSnapshot is returned by snapshot stores before the first
	// successful fetch has committed a generation.
	ErrNoSnapshot = errors.New("no snapshot available yet")

	// ErrAlreadyRunning is returned when a manual fetch trigger arrives
	// while a run is already in flight.
	ErrAlreadyRunning = errors.New("fetch already running")

	// ErrSchedulerStopped is returned when a trigger arrives after the
	// scheduler has shut down.
	ErrSchedulerStopped = errors.New("scheduler stopped")
)

// SourceError records one adapter's failure during an orchestrator run.
type SourceError struct {
	Bookmaker string `json:"bookmaker"`
	Err       error  `json:"-"`
	Message   string `json:"error"`
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Bookmaker, e.Message)
}

func (e SourceError) Unwrap() error { return e.Err }

// AllSourcesFailedError is the orchestrator's fatal error for a single run:
// every adapter failed, so no new snapshot was produced and the store was
// left untouched. It is fatal to the run only; the scheduler carries on.
type AllSourcesFailedError struct {
	Errors []SourceError
}

func (e *AllSourcesFailedError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, se := range e.Errors {
		parts = append(parts, se.Error())
	}
	return "all sources failed: " + strings.Join(parts, "; ")
}
