package compiler

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageFilename Stage = "filename"
	StageParse    Stage = "parse"
	StageIR       Stage = "ir"
	StageLower    Stage = "lower"
	StageBackend  Stage = "backend"
	StageRecord   Stage = "record"
)

// Stages lists the pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{StageFilename, StageParse, StageIR, StageLower, StageBackend, StageRecord}
}

var (
	// ErrBadFilename is returned when a script path cannot name a module.
	ErrBadFilename = errors.New("bad filename")

	// ErrNoFrontend is returned when no frontend is registered for a language.
	ErrNoFrontend = errors.New("no frontend registered")
)

// Error is the single error type returned by Translate.
type Error struct {
	Stage  Stage
	Script string
	Err    error
}

func (e *Error) Error() string {
	if e.Script != "" {
		return fmt.Sprintf("%s: %s stage: %v", e.Script, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// stageError wraps err unless it already carries a stage.
func stageError(stage Stage, script string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Stage: stage, Script: script, Err: err}
}

// StageOf returns the stage of a pipeline error.
func StageOf(err error) (Stage, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// IsStage reports whether err failed in the given stage.
func IsStage(err error, stage Stage) bool {
	s, ok := StageOf(err)
	return ok && s == stage
}
