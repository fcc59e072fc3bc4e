package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrCollaborator is matched by every *CollaboratorError.
	ErrCollaborator = errors.New("collaborator failed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CollaboratorError reports an embedding or generative-text provider failure
// that survived the retry policy.
type CollaboratorError struct {
	Collaborator string // "embedding" or "generative"
	Op           string
	Attempts     int
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s collaborator: %s failed after %d attempt(s): %v", e.Collaborator, e.Op, e.Attempts, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}

// Stage is a step of the reconciliation pipeline.
type Stage string

const (
	StageInit         Stage = "init"
	StageNormalized   Stage = "normalized"
	StageDeduplicated Stage = "deduplicated"
	StageEmbedded     Stage = "embedded"
	StageMatched      Stage = "matched"
	StageReported     Stage = "reported"
	StageFailed       Stage = "failed"
)

// StageError identifies the pipeline stage that failed. Stage is the state
// the pipeline was trying to reach.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("reconcile failed before reaching %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
