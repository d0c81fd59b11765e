package transmission

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenRegions(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		fallback string
		secret   string
		hostname string
	}{
		{name: "US", token: "US:abc123", hostname: "keepersecurity.com", secret: "abc123"},
		{name: "lowercase region", token: "eu:abc123", hostname: "keepersecurity.eu", secret: "abc123"},
		{name: "AU", token: "AU:abc123", hostname: "keepersecurity.com.au", secret: "abc123"},
		{name: "GOV", token: "GOV:abc123", hostname: "govcloud.keepersecurity.us", secret: "abc123"},
		{name: "US_GOV alias", token: "US_GOV:abc123", hostname: "govcloud.keepersecurity.us", secret: "abc123"},
		{name: "JP", token: "JP:abc123", hostname: "keepersecurity.jp", secret: "abc123"},
		{name: "CA", token: "CA:abc123", hostname: "keepersecurity.ca", secret: "abc123"},
		{name: "literal hostname", token: "fr10.keepersecurity.fr:abc123", hostname: "fr10.keepersecurity.fr", secret: "abc123"},
		{name: "bare secret with fallback", token: "abc123", fallback: "keepersecurity.eu", hostname: "keepersecurity.eu", secret: "abc123"},
		{name: "fallback scheme stripped", token: "abc123", fallback: "https://keepersecurity.eu/", hostname: "keepersecurity.eu", secret: "abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, hostname, err := parseToken(tt.token, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.secret, secret)
			assert.Equal(t, tt.hostname, hostname)
		})
	}
}

func TestParseTokenErrors(t *testing.T) {
	_, _, err := parseToken("", "")
	assert.ErrorIs(t, err, errEmptyToken)

	_, _, err = parseToken("   ", "keepersecurity.com")
	assert.ErrorIs(t, err, errEmptyToken)

	_, _, err = parseToken("baresecret", "")
	assert.ErrorIs(t, err, errNoHostname)
}

func TestDefaultKeyTableCoversRotationRange(t *testing.T) {
	for id := 1; id <= 17; id++ {
		_, ok := serverPublicKeys[strconv.Itoa(id)]
		assert.True(t, ok, "missing pinned key %d", id)
	}
}
