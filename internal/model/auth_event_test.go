package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStages(t *testing.T) {
	stages := AuthStages()
	require.Len(t, stages, 11)

	seen := make(map[AuthStage]bool, len(stages))
	for _, s := range stages {
		assert.True(t, s.Valid(), s)
		assert.False(t, seen[s], "duplicate stage %s", s)
		seen[s] = true
	}

	assert.False(t, AuthStage("made_up").Valid())
}

func TestParseAuthProvider(t *testing.T) {
	assert.Equal(t, AuthProviderGoogle, *ParseAuthProvider("google"))
	assert.Equal(t, AuthProviderApple, *ParseAuthProvider("apple"))
	assert.Nil(t, ParseAuthProvider("github"))
	assert.Nil(t, ParseAuthProvider(""))
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, *ParseConfidence("high"))
	assert.Equal(t, ConfidenceLow, *ParseConfidence("low"))
	assert.Nil(t, ParseConfidence("very high"))
}
