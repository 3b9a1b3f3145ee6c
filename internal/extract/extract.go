// Package extract pulls structured JSON out of free-form model output.
//
// Models are asked for JSON but frequently wrap it in prose or Markdown fences, or reply with
// something else entirely. JSONArray and JSONObject accept all of those shapes and report
// ErrNoJSON when nothing decodable is present; callers then substitute their degraded defaults.
package extract

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when text holds no value of the requested shape that decodes into the target.
var ErrNoJSON = errors.New("no decodable JSON found")

// JSONArray decodes the first JSON array in text into v.
func JSONArray(text string, v any) error {
	return first(text, '[', v)
}

// JSONObject decodes the first JSON object in text into v.
func JSONObject(text string, v any) error {
	return first(text, '{', v)
}

// first tries every position where open occurs, in order, and decodes the value that starts
// there. Trailing text after the value is ignored.
func first(text string, open byte, v any) error {
	for i := strings.IndexByte(text, open); i >= 0; {
		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		if err := dec.Decode(&raw); err == nil {
			if err := json.Unmarshal(raw, v); err == nil {
				return nil
			}
		}
		next := strings.IndexByte(text[i+1:], open)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return ErrNoJSON
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
