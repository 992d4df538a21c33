// Package input provides the cursor-backed view over a raw command line
// that the dispatch tree walks during parsing and suggestion.
//
// An Input wraps the full source string together with an integer cursor.
// Reads advance the cursor; the cursor can be snapshotted and restored so
// the tree walker can rewind after a failed branch. Tokenization is
// whitespace-only: adjacent whitespace separates tokens but is otherwise
// preserved in the underlying buffer.
package input

import (
	"strings"
	"unicode"
)

// Input is a cursor over a token stream backed by a raw string.
// It is not safe for concurrent use; each parse or suggestion invocation
// owns its Input exclusively.
type Input struct {
	source string
	cursor int
}

// New creates an Input positioned at the start of source.
func New(source string) *Input {
	return &Input{source: source}
}

// Of creates an Input from pre-split tokens, joined by single spaces.
func Of(tokens ...string) *Input {
	return New(strings.Join(tokens, " "))
}

// Source returns the full underlying string, including consumed input.
func (in *Input) Source() string {
	return in.source
}

// Cursor returns the current cursor position.
func (in *Input) Cursor() int {
	return in.cursor
}

// SetCursor rewinds (or advances) the cursor to an absolute position.
// Restoring a snapshot taken with Cursor restores read behavior exactly.
func (in *Input) SetCursor(position int) {
	if position < 0 {
		position = 0
	}
	if position > len(in.source) {
		position = len(in.source)
	}
	in.cursor = position
}

// RemainingInput returns the raw substring that has not been consumed.
func (in *Input) RemainingInput() string {
	return in.source[in.cursor:]
}

// RemainingLength returns the number of unconsumed characters.
func (in *Input) RemainingLength() int {
	return len(in.source) - in.cursor
}

// IsEmpty reports whether the input is fully consumed.
func (in *Input) IsEmpty() bool {
	return in.cursor >= len(in.source)
}

// IsBlank reports whether only whitespace remains.
func (in *Input) IsBlank() bool {
	return strings.TrimSpace(in.RemainingInput()) == ""
}

// RemainingTokens returns the count of whitespace-separated tokens left.
// Trailing whitespace counts as an empty token being started, so that
// completion treats "give " as positioned on a fresh second token.
func (in *Input) RemainingTokens() int {
	return len(in.Tokens())
}

// Tokens returns the remaining whitespace-separated tokens. When the
// buffer ends in whitespace the final element is the empty token being
// started.
func (in *Input) Tokens() []string {
	remaining := in.RemainingInput()
	tokens := strings.Fields(remaining)
	if remaining != "" && isSpace(remaining[len(remaining)-1]) {
		tokens = append(tokens, "")
	}
	return tokens
}

// LastRemainingToken returns the final token in the remaining buffer,
// or the empty string if nothing but whitespace remains.
func (in *Input) LastRemainingToken() string {
	tokens := in.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// PeekString returns the next token without advancing the cursor.
// Leading whitespace is skipped. Returns "" if the input is exhausted.
func (in *Input) PeekString() string {
	pos := in.cursor
	for pos < len(in.source) && isSpace(in.source[pos]) {
		pos++
	}
	start := pos
	for pos < len(in.source) && !isSpace(in.source[pos]) {
		pos++
	}
	return in.source[start:pos]
}

// ReadString consumes leading whitespace and the next token, advancing
// the cursor past it. The whitespace that separates the token from the
// rest of the buffer is left in place so that emptiness checks can still
// distinguish "foo" from "foo ".
func (in *Input) ReadString() string {
	in.SkipWhitespace()
	start := in.cursor
	for in.cursor < len(in.source) && !isSpace(in.source[in.cursor]) {
		in.cursor++
	}
	return in.source[start:in.cursor]
}

// SkipWhitespace advances the cursor past any leading whitespace.
func (in *Input) SkipWhitespace() {
	for in.cursor < len(in.source) && isSpace(in.source[in.cursor]) {
		in.cursor++
	}
}

// Peek returns the next unconsumed byte, or 0 if exhausted.
func (in *Input) Peek() byte {
	if in.IsEmpty() {
		return 0
	}
	return in.source[in.cursor]
}

// MoveCursor advances the cursor by offset characters.
func (in *Input) MoveCursor(offset int) {
	in.SetCursor(in.cursor + offset)
}

// ReadRemaining consumes and returns everything left in the buffer.
func (in *Input) ReadRemaining() string {
	remaining := in.RemainingInput()
	in.cursor = len(in.source)
	return remaining
}

// Copy returns a detached snapshot sharing no mutable state.
func (in *Input) Copy() *Input {
	clone := *in
	return &clone
}

// AppendString logically appends s to the input buffer, separated from
// the existing content by a single space. Used to re-feed parsed default
// values through the walker.
func (in *Input) AppendString(s string) *Input {
	if in.source == "" {
		in.source = s
	} else {
		in.source = in.source + " " + s
	}
	return in
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}
