package services_test

import (
	"testing"

	"github.com/bionicotaku/lingo-services-animebot/internal/services"

	"github.com/stretchr/testify/require"
)

func TestParseChannelID(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{raw: "-1001234567890", want: -1001234567890, ok: true},
		{raw: "1234567890", want: -1001234567890, ok: true},
		{raw: "  1234567890 ", want: -1001234567890, ok: true},
		{raw: "-100", ok: false},
		{raw: "-12345", ok: false},
		{raw: "@channel", ok: false},
		{raw: "", ok: false},
	}
	for _, tc := range cases {
		got, err := services.ParseChannelID(tc.raw)
		if !tc.ok {
			require.ErrorIs(t, err, services.ErrInvalidChannelID, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParsePartNumber(t *testing.T) {
	n, err := services.ParsePartNumber(" 3 ")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	for _, raw := range []string{"0", "-1", "x", ""} {
		_, err := services.ParsePartNumber(raw)
		require.ErrorIs(t, err, services.ErrInvalidPartNumber, raw)
	}
	require.True(t, services.IsCode("0042"))
	require.False(t, services.IsCode("42a"))
	require.False(t, services.IsCode(""))
}

func TestRuntimeState(t *testing.T) {
	state := services.NewRuntimeState()
	require.True(t, state.Enabled())
	state.SetEnabled(false)
	require.False(t, state.Enabled())
	state.SetEnabled(true)
	require.True(t, state.Enabled())
}
