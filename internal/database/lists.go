// internal/database/lists.go
package database

import "encoding/json"

// List-valued columns are stored as JSONB arrays. These helpers are the only place
// where []string crosses into its JSON representation.

func encodeList(l []string) []byte {
	if l == nil {
		l = []string{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		// []string always marshals
		return []byte("[]")
	}
	return b
}

func decodeList(raw []byte) ([]string, error) {
	l := []string{}
	if len(raw) == 0 || string(raw) == "null" {
		return l, nil
	}
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	return l, nil
}
