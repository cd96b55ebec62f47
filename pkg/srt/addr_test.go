package srt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irctrakz/gosrt/pkg/core"
)

func TestResolveLiteral(t *testing.T) {
	ap, err := resolveFirst("test", "127.0.0.1:4200")
	require.Nil(t, err)
	assert.Equal(t, "127.0.0.1:4200", ap.String())

	ap, err = resolveFirst("test", "[::1]:9000")
	require.Nil(t, err)
	assert.Equal(t, "[::1]:9000", ap.String())
}

func TestResolveHostname(t *testing.T) {
	ap, err := resolveFirst("test", "localhost:5000")
	require.Nil(t, err)
	assert.True(t, ap.Addr().IsLoopback())
	assert.EqualValues(t, 5000, ap.Port())
}

func TestResolveFailures(t *testing.T) {
	cases := []string{
		"no-port-here",
		"127.0.0.1:notaport",
		"127.0.0.1:99999",
		"host.invalid:80",
	}
	for _, input := range cases {
		_, err := resolveFirst("test", input)
		require.NotNil(t, err, "input %q", input)
		assert.Equal(t, KindAddressResolution, err.Kind, "input %q", input)
	}
}

func TestResolutionFailureLeavesSocketUntouched(t *testing.T) {
	s := newTestSocket(t)
	err := s.Connect("host.invalid:80")
	require.Error(t, err)
	srtErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindAddressResolution, srtErr.Kind)
	// The engine was never entered, so the state did not change.
	assert.Equal(t, core.StatusInit, s.State())
}
