package gcal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, saveToken(path, token))

	loaded, err := loadToken(path)
	require.NoError(t, err)

	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, token.TokenType, loaded.TokenType)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := loadToken(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
