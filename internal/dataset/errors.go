package dataset

import (
	"fmt"

	"shoppulse/pkg/contracts/domain"
)

// MissingSourceError reports a required source file that is absent. It is
// fatal: the pipeline surfaces it immediately and does not retry.
type MissingSourceError struct {
	Source domain.Source
	Path   string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("required source %q not found at %s", e.Source, e.Path)
}

// ParseError reports a required column that is absent or cannot be coerced to
// its expected type for the whole source. Individual bad rows are dropped and
// counted instead.
type ParseError struct {
	Source domain.Source
	Column string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("source %q: column %q: %s", e.Source, e.Column, e.Reason)
}
