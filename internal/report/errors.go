package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredData is returned before any page is started when the model
	// lacks a required field or carries an out-of-range value
	ErrMissingRequiredData = errors.New("missing required report data")

	// ErrExportFailed wraps every failure that happens after rendering has begun
	ErrExportFailed = errors.New("export failed")
)

// MeasurementError is returned when the drawing surface cannot measure a piece of text
type MeasurementError struct {
	Snippet string
	Err     error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("failed to measure text %q: %v", e.Snippet, e.Err)
}

func (e *MeasurementError) Unwrap() error {
	return e.Err
}

func snippet(text string) string {
	const max = 40
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
