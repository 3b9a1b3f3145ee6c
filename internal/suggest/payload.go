package suggest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// suggestionPayload is one element of the JSON array the model is asked for.
type suggestionPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours hours    `json:"estimated_hours"`
	Tags           []string `json:"tags"`
	DuckWisdom     string   `json:"duck_wisdom"`
}

// hours accepts a JSON number or a numeric string such as "6" or "4-6" (the first number wins).
// Anything else decodes to zero, which is later replaced by the default estimate.
type hours int

func (h *hours) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*h = hours(math.Round(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*h = 0
		return nil
	}
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end >= 0 {
		s = s[:end]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*h = 0
		return nil
	}
	*h = hours(math.Round(f))
	return nil
}
