package command

import (
	"errors"
	"fmt"
)

// Parser failure causes. These travel inside ParseResult failures; the
// tree decides whether a failure is absorbed (sibling scan) or surfaced
// (committed branch).
var (
	// ErrNoInputProvided is returned when a parser needs a token and the
	// input is exhausted.
	ErrNoInputProvided = errors.New("no input provided")

	// ErrNoMatchingLiteral is returned when the next token matches none
	// of a literal's aliases.
	ErrNoMatchingLiteral = errors.New("no matching literal")

	// ErrUnmatchedQuote is returned by the quoted string parser when a
	// quoted span never closes.
	ErrUnmatchedQuote = errors.New("unmatched quote")
)

// NumberParseError reports a numeric argument that could not be parsed or
// fell outside the accepted range.
type NumberParseError struct {
	Input    string
	Min, Max float64
	// OutOfRange distinguishes a well-formed number outside the bounds
	// from input that is not a number at all.
	OutOfRange bool
}

func (e *NumberParseError) Error() string {
	if e.OutOfRange {
		return fmt.Sprintf("value %q must be between %v and %v", e.Input, e.Min, e.Max)
	}
	return fmt.Sprintf("%q is not a valid number", e.Input)
}

// BooleanParseError reports a token that is not an accepted boolean form.
type BooleanParseError struct {
	Input   string
	Liberal bool
}

func (e *BooleanParseError) Error() string {
	return fmt.Sprintf("%q is not a valid boolean", e.Input)
}

// UnknownFlagError reports a flag token that matches no registered flag.
type UnknownFlagError struct {
	Flag string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag %q", e.Flag)
}

// DuplicateFlagError reports a flag supplied more than once.
type DuplicateFlagError struct {
	Flag string
}

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("flag %q supplied twice", e.Flag)
}

// FlagArgumentError reports a value flag with a missing or unparseable
// argument.
type FlagArgumentError struct {
	Flag  string
	Cause error
}

func (e *FlagArgumentError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("flag %q requires an argument", e.Flag)
	}
	return fmt.Sprintf("invalid argument for flag %q: %v", e.Flag, e.Cause)
}

func (e *FlagArgumentError) Unwrap() error { return e.Cause }
