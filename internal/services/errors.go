package services

import (
	"fmt"
	"strings"
)

// DayGenerationError means a single day's generation exhausted its retry
// budget; it is fatal to the whole plan-generation request.
type DayGenerationError struct {
	Day      int
	Attempts int
	Err      error
}

func (e *DayGenerationError) Error() string {
	return fmt.Sprintf("day %d generation failed after %d attempts: %v", e.Day, e.Attempts, e.Err)
}

func (e *DayGenerationError) Unwrap() error { return e.Err }

// GenerationError wraps an unrecoverable failure in the overview or summary
// stage; those stages carry no retry budget.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError carries every structural defect found in the assembled
// plan, not just the first.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "plan validation failed: " + strings.Join(e.Errors, "; ")
}
