package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApprovalCodeFormat(t *testing.T) {
	hexUpper := regexp.MustCompile(`^[0-9A-F]{8}$`)
	for i := 0; i < 50; i++ {
		code, err := NewApprovalCode()
		require.NoError(t, err)
		assert.Len(t, code, ApprovalCodeLen)
		assert.Regexp(t, hexUpper, code)
	}
}

func TestNewApprovalCodeVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := NewApprovalCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 20 identical 32-bit codes would mean the random source is broken
	assert.Greater(t, len(seen), 1)
}

func TestNormalizeApprovalCode(t *testing.T) {
	cases := map[string]string{
		"AB12CD34":      "AB12CD34",
		"ab12cd34":      "AB12CD34",
		"  ab12cd34  ":  "AB12CD34",
		"\tAb12Cd34\n":  "AB12CD34",
		"":              "",
		"   ":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeApprovalCode(in))
	}
}
