// Package extract recovers a JSON value from a free-text model reply.
//
// Models are asked for bare JSON but regularly wrap it in code fences,
// prepend reasoning blocks or add a sentence of commentary. Clean removes
// the wrapping; Array and Object then slice out the payload and parse it.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Reason string

const (
	ReasonNoArray     Reason = "no-array-found"
	ReasonNoObject    Reason = "no-object-found"
	ReasonParseFailed Reason = "parse-failed"
)

// SnippetLength bounds Error.RawSnippet, in runes.
const SnippetLength = 200

// Error is returned for every extraction failure.
type Error struct {
	Reason     Reason
	RawSnippet string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extract: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	thinkBlock    = regexp.MustCompile(`(?is)<think>.*?</think>`)
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("(?i)\\s*```$")
	leadingTick   = regexp.MustCompile("^`\\s*")
	trailingTick  = regexp.MustCompile("\\s*`$")
)

// Clean strips reasoning blocks, one leading and one trailing code fence,
// stray single backticks and surrounding whitespace.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	s = leadingTick.ReplaceAllString(s, "")
	s = trailingTick.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Array returns the JSON array embedded in raw.
//
// The first '[' to the last ']' is tried first, which is exact when the whole
// reply is the array. If that slice does not parse, each balanced [...] span
// is tried left to right so a stray bracket in trailing prose does not sink
// an otherwise good reply.
func Array(raw string) ([]any, error) {
	cleaned := Clean(raw)
	v, err := slice(cleaned, '[', ']', ReasonNoArray)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &Error{Reason: ReasonParseFailed, RawSnippet: snippet(cleaned)}
	}
	return arr, nil
}

// Object returns the JSON object embedded in raw, using the same strategy as Array.
func Object(raw string) (map[string]any, error) {
	cleaned := Clean(raw)
	v, err := slice(cleaned, '{', '}', ReasonNoObject)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &Error{Reason: ReasonParseFailed, RawSnippet: snippet(cleaned)}
	}
	return obj, nil
}

func slice(cleaned string, open, close byte, notFound Reason) (any, error) {
	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start < 0 || end <= start {
		return nil, &Error{Reason: notFound, RawSnippet: snippet(cleaned)}
	}

	var v any
	wideErr := json.Unmarshal([]byte(cleaned[start:end+1]), &v)
	if wideErr == nil {
		return v, nil
	}

	for i := start; i < len(cleaned); i++ {
		if cleaned[i] != open {
			continue
		}
		j := matching(cleaned, i, open, close)
		if j < 0 {
			continue
		}
		var candidate any
		if json.Unmarshal([]byte(cleaned[i:j+1]), &candidate) == nil {
			return candidate, nil
		}
	}

	return nil, &Error{Reason: ReasonParseFailed, RawSnippet: snippet(cleaned), Err: wideErr}
}

// matching returns the index of the bracket closing the one at from, skipping
// over JSON string literals, or -1 when it is never closed.
func matching(s string, from int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := from; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= SnippetLength {
		return s
	}
	return string([]rune(s)[:SnippetLength])
}
