package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStartPayload(t *testing.T) {
	cases := []struct {
		raw  string
		want startPayload
		ok   bool
	}{
		{"100", startPayload{code: "100"}, true},
		{"part_100_2", startPayload{code: "100", part: 2}, true},
		{"part_100_0", startPayload{}, false},
		{"part_abc_1", startPayload{}, false},
		{"part_100", startPayload{}, false},
		{"hello", startPayload{}, false},
		{"", startPayload{}, false},
	}
	for _, tc := range cases {
		got, ok := parseStartPayload(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParsePartRef(t *testing.T) {
	code, n, ok := parsePartRef("100:12", ":")
	assert.True(t, ok)
	assert.Equal(t, "100", code)
	assert.Equal(t, 12, n)

	_, _, ok = parsePartRef(":3", ":")
	assert.False(t, ok)
	_, _, ok = parsePartRef("100:-1", ":")
	assert.False(t, ok)
}
