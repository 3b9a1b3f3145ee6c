package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeList(t *testing.T) {
	assert.Equal(t, "[]", string(encodeList(nil)))
	assert.Equal(t, `["a","b"]`, string(encodeList([]string{"a", "b"})))
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"null", "null", []string{}},
		{"empty array", "[]", []string{}},
		{"ordered values", `["z","a","m"]`, []string{"z", "a", "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := decodeList([]byte(`{"not":"a list"}`))
	assert.Error(t, err)
}
