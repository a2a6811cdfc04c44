// Package jsonrepair coerces LLM completion text into parseable JSON.
//
// Model output is frequently wrapped in markdown fences, surrounded by prose,
// or corrupted with full-width punctuation and unquoted keys/values. Parse
// applies a fixed sequence of best-effort textual repairs before decoding.
// It knows nothing about itinerary semantics.
package jsonrepair

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"
)

const excerptLen = 500

// ParseError is returned when no recoverable JSON object could be produced.
// Head and Tail carry excerpts of the original raw text for diagnostics.
type ParseError struct {
	Msg  string
	Head string
	Tail string
}

func (e *ParseError) Error() string { return e.Msg }

func newParseError(raw, msg string) *ParseError {
	runes := []rune(raw)
	head := runes
	if len(head) > excerptLen {
		head = head[:excerptLen]
	}
	tail := runes
	if len(tail) > excerptLen {
		tail = tail[len(tail)-excerptLen:]
	}
	return &ParseError{Msg: msg, Head: string(head), Tail: string(tail)}
}

// Parse extracts a JSON object from raw model text, repairing common
// corruption if a direct decode fails. Input that already decodes cleanly is
// returned unchanged; the repair heuristics never touch well-formed JSON.
func Parse(raw string) (map[string]any, error) {
	s := stripCodeFence(raw)

	s, perr := sliceObject(raw, s)
	if perr != nil {
		return nil, perr
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}

	repaired := Repair(s)
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		log.Printf("jsonrepair: decode failed after repair: %v", err)
		return nil, newParseError(raw, "model response could not be parsed as JSON")
	}
	return out, nil
}

// Repair applies the textual repair heuristics in order. Each heuristic is
// best-effort; values containing unescaped structural characters can still
// defeat it, which is an accepted limitation.
func Repair(s string) string {
	s = normalizePunctuation(s)
	s = quoteBareKeys(s)
	s = quoteBareValues(s)
	s = quoteBareArrayElements(s)
	return s
}

// stripCodeFence removes a leading ```json / ``` marker and a trailing ```
// marker if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// sliceObject cuts the text to the span between the first opening brace and
// the last closing brace, discarding any prose the model emitted around the
// object.
func sliceObject(raw, s string) (string, *ParseError) {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first == -1 || last == -1 || last <= first {
		return "", newParseError(raw, "no structural delimiters in model response")
	}
	return s[first : last+1], nil
}

var punctuationReplacer = strings.NewReplacer(
	"：", ":",
	"，", ",",
	"“", `"`, // “
	"”", `"`, // ”
	"‘", `"`, // ‘
	"’", `"`, // ’
	"'", `"`,
)

// normalizePunctuation maps full-width punctuation to ASCII and single quotes
// to double quotes. The single-quote pass can over-fire on apostrophes inside
// content; parity with the original behavior is preferred over a tokenizer.
func normalizePunctuation(s string) string {
	return punctuationReplacer.Replace(s)
}

var bareKeyRe = regexp.MustCompile(`(?m)([,{]|^)(\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// quoteBareKeys wraps unquoted field names in double quotes,
// e.g. {day:1 -> {"day":1.
func quoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `${1}${2}"${3}":`)
}

var bareValueRe = regexp.MustCompile(`":\s*([^",{}\[\]\s][^,}\]]*)`)

// quoteBareValues wraps colon-introduced scalar values that are not already
// quoted and are not numeric/boolean/null,
// e.g. "title":探索北京 -> "title":"探索北京". Only colons directly following a
// quoted key are considered, so colons inside string content are left alone.
func quoteBareValues(s string) string {
	return bareValueRe.ReplaceAllStringFunc(s, func(m string) string {
		colon := strings.IndexByte(m, ':')
		val := strings.TrimSpace(m[colon+1:])
		if val == "" || isJSONLiteral(val) {
			return m
		}
		return m[:colon+1] + `"` + val + `"`
	})
}

var bareElementRe = regexp.MustCompile(`([\[,]\s*)([^",{}\[\]\s][^,}\]]*)`)

// quoteBareArrayElements applies the bare-value rule to elements of array
// literals, e.g. ["a", b] -> ["a", "b"].
func quoteBareArrayElements(s string) string {
	return bareElementRe.ReplaceAllStringFunc(s, func(m string) string {
		loc := bareElementRe.FindStringSubmatchIndex(m)
		prefix := m[loc[2]:loc[3]]
		val := strings.TrimSpace(m[loc[4]:loc[5]])
		if val == "" || isJSONLiteral(val) {
			return m
		}
		return prefix + `"` + val + `"`
	})
}

func isJSONLiteral(v string) bool {
	if strings.HasPrefix(v, `"`) {
		return true
	}
	switch v {
	case "true", "false", "null":
		return true
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}
