package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerify(t *testing.T) {
	v := NewVerifier([]byte("secret"))

	tok, err := v.Generate("console", time.Hour)
	require.NoError(t, err)

	sub, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "console", sub)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier([]byte("secret"))

	expired, err := v.Generate("console", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := NewVerifier([]byte("other")).Generate("console", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub, err := v.Generate("", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(noSub)
	assert.ErrorIs(t, err, ErrMissingClaim)

	_, err = v.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
