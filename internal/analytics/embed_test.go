package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedURL(t *testing.T) {
	u, err := EmbedURL("https://bi.example.com/", "secret", 7, map[string]any{"region": "eu"}, time.Minute, time.Now())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "https://bi.example.com/embed/dashboard/"))
	assert.True(t, strings.HasSuffix(u, "#bordered=true&titled=true"))

	id, err := DashboardID(u, "secret")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestEmbedURLWrongSecret(t *testing.T) {
	u, err := EmbedURL("https://bi.example.com", "secret", 7, nil, time.Minute, time.Now())
	require.NoError(t, err)

	_, err = DashboardID(u, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmbedURLExpired(t *testing.T) {
	u, err := EmbedURL("https://bi.example.com", "secret", 7, nil, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = DashboardID(u, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmbedURLNotConfigured(t *testing.T) {
	_, err := Embed{SiteURL: "https://bi.example.com"}.URL(time.Now())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
