package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWSEndpoint(t *testing.T) {
	for in, out := range map[string]string{
		"http://localhost:30333":      "ws://localhost:30333/ws",
		"https://rpc.example.org/":    "wss://rpc.example.org/ws",
		"ws://localhost:30333/ws":     "ws://localhost:30333/ws",
		"wss://rpc.example.org:10331": "wss://rpc.example.org:10331/ws",
	} {
		require.Equal(t, out, wsEndpoint(in), in)
	}
}

func TestParseListingID(t *testing.T) {
	id, err := parseListingID("42")
	require.NoError(t, err)
	require.EqualValues(t, 42, id.Int64())

	for _, s := range []string{"", "0", "-1", "x"} {
		_, err = parseListingID(s)
		require.Error(t, err, s)
	}
}

func TestParseTokenAmount(t *testing.T) {
	decimals := func() (int, error) { return 8, nil }

	v, err := parseTokenAmount("1.5", decimals)
	require.NoError(t, err)
	require.EqualValues(t, 150_000_000, v.Int64())

	_, err = parseTokenAmount("-1", decimals)
	require.Error(t, err)

	_, err = parseTokenAmount("abc", decimals)
	require.Error(t, err)

	_, err = parseTokenAmount("1", func() (int, error) { return 0, errors.New("no RPC") })
	require.Error(t, err)
}
