package command

import (
	"context"
	"math"
	"strconv"

	"cmdtree/internal/input"
)

// IntegerParser parses a whole number with inclusive bounds. The bounds
// set by NewIntegerParser accept the full int64 range.
type IntegerParser struct {
	min, max int64
}

// NewIntegerParser accepts any int64.
func NewIntegerParser() *IntegerParser {
	return &IntegerParser{min: math.MinInt64, max: math.MaxInt64}
}

// NewIntegerRangeParser accepts values in [min, max].
func NewIntegerRangeParser(min, max int64) *IntegerParser {
	return &IntegerParser{min: min, max: max}
}

// Min returns the inclusive lower bound.
func (p *IntegerParser) Min() int64 { return p.min }

// Max returns the inclusive upper bound.
func (p *IntegerParser) Max() int64 { return p.max }

// HasMin reports whether the lower bound is tighter than int64's.
func (p *IntegerParser) HasMin() bool { return p.min != math.MinInt64 }

// HasMax reports whether the upper bound is tighter than int64's.
func (p *IntegerParser) HasMax() bool { return p.max != math.MaxInt64 }

// Parse consumes the next token as an integer within the bounds.
func (p *IntegerParser) Parse(_ context.Context, _ *Context, in *input.Input) ParseResult {
	token := in.PeekString()
	if token == "" {
		return Failure(ErrNoInputProvided)
	}
	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return Failure(&NumberParseError{Input: token, Min: float64(p.min), Max: float64(p.max)})
	}
	if value < p.min || value > p.max {
		return Failure(&NumberParseError{
			Input: token, Min: float64(p.min), Max: float64(p.max), OutOfRange: true,
		})
	}
	in.ReadString()
	return Success(value)
}

// Suggestions extends the typed numeric prefix one digit at a time,
// offering only candidates inside the bounds.
func (p *IntegerParser) Suggestions(_ context.Context, _ *Context, prefix string) []Suggestion {
	return numericSuggestions(prefix, func(candidate string) bool {
		value, err := strconv.ParseInt(candidate, 10, 64)
		return err == nil && value >= p.min && value <= p.max
	})
}

// FloatParser parses a floating point number with inclusive bounds.
type FloatParser struct {
	min, max float64
}

// NewFloatParser accepts any float64, including infinities and NaN.
func NewFloatParser() *FloatParser {
	return &FloatParser{min: math.Inf(-1), max: math.Inf(1)}
}

// NewFloatRangeParser accepts values in [min, max].
func NewFloatRangeParser(min, max float64) *FloatParser {
	return &FloatParser{min: min, max: max}
}

// Min returns the inclusive lower bound.
func (p *FloatParser) Min() float64 { return p.min }

// Max returns the inclusive upper bound.
func (p *FloatParser) Max() float64 { return p.max }

// Parse consumes the next token as a float within the bounds.
func (p *FloatParser) Parse(_ context.Context, _ *Context, in *input.Input) ParseResult {
	token := in.PeekString()
	if token == "" {
		return Failure(ErrNoInputProvided)
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return Failure(&NumberParseError{Input: token, Min: p.min, Max: p.max})
	}
	if value < p.min || value > p.max {
		return Failure(&NumberParseError{Input: token, Min: p.min, Max: p.max, OutOfRange: true})
	}
	in.ReadString()
	return Success(value)
}

// Suggestions extends the typed numeric prefix one digit at a time.
func (p *FloatParser) Suggestions(_ context.Context, _ *Context, prefix string) []Suggestion {
	return numericSuggestions(prefix, func(candidate string) bool {
		value, err := strconv.ParseFloat(candidate, 64)
		return err == nil && value >= p.min && value <= p.max
	})
}

// numericSuggestions builds prefix+digit candidates admitted by inRange.
// An empty prefix yields single digits; a "-" prefix yields negative
// single digits.
func numericSuggestions(prefix string, inRange func(string) bool) []Suggestion {
	if prefix != "" && prefix != "-" {
		if _, err := strconv.ParseFloat(prefix, 64); err != nil {
			return nil
		}
	}
	var out []Suggestion
	for digit := '0'; digit <= '9'; digit++ {
		candidate := prefix + string(digit)
		if inRange(candidate) {
			out = append(out, SuggestionOf(candidate))
		}
	}
	return out
}
