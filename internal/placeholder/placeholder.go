// Package placeholder expands {N} positional references in plain-text
// prompt fragments. The grammar is deliberately tiny: single-digit indices,
// {{ and }} as literal brace escapes, and hard errors for everything else.
package placeholder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxIndex is the highest accepted positional slot.
const maxIndex = 9

var (
	// ErrEmptyPlaceholder reports a bare {} with no digits.
	ErrEmptyPlaceholder = errors.New("empty placeholder braces are not allowed")
	// ErrIndexTooLarge reports an index beyond the single-digit slots.
	ErrIndexTooLarge = errors.New("positional placeholders support up to 9 arguments")
	// ErrUnmatchedBrace reports a } that is not part of a }} escape.
	ErrUnmatchedBrace = errors.New("unmatched closing brace '}'")
)

// MissingArgumentError reports a placeholder whose index is beyond the
// supplied argument list.
type MissingArgumentError struct {
	Index int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument for placeholder {%d}", e.Index)
}

// UnterminatedError reports a { that is never closed.
type UnterminatedError struct {
	Digits string
}

func (e *UnterminatedError) Error() string {
	if e.Digits == "" {
		return "unterminated placeholder at end of fragment"
	}
	return fmt.Sprintf("unterminated placeholder '{%s'", e.Digits)
}

// Expand substitutes {N} references in text with args[N]. It is a single
// left-to-right scan; each byte is visited once and there is no backtracking.
func Expand(text string, args []string) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if i+1 >= len(text) {
				return "", &UnterminatedError{}
			}
			if text[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}

			start := i + 1
			j := start
			for j < len(text) && text[j] >= '0' && text[j] <= '9' {
				j++
			}
			digits := text[start:j]

			if digits == "" {
				if j < len(text) && text[j] == '}' {
					return "", ErrEmptyPlaceholder
				}
				return "", fmt.Errorf("malformed placeholder near '{%s'", snippet(text[start:]))
			}
			if j >= len(text) || text[j] != '}' {
				return "", &UnterminatedError{Digits: digits}
			}

			index, err := strconv.Atoi(digits)
			if err != nil {
				return "", fmt.Errorf("invalid placeholder index %q", digits)
			}
			if index > maxIndex {
				return "", ErrIndexTooLarge
			}
			if index >= len(args) {
				return "", &MissingArgumentError{Index: index}
			}

			out.WriteString(args[index])
			i = j
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			return "", ErrUnmatchedBrace
		default:
			out.WriteByte(text[i])
		}
	}

	return out.String(), nil
}

func snippet(s string) string {
	const max = 8
	if len(s) > max {
		return s[:max]
	}
	return s
}
