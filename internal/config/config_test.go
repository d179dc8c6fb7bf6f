package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	t.Setenv("CLIENT_URL", "http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, 15, cfg.SignedURLTTLMinutes)
	assert.Equal(t, "sandbox", cfg.MidtransEnv)
	assert.Equal(t, "test-project", cfg.FirebaseProjectID)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)

	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigRequiresProjectID(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	t.Setenv("CLIENT_URL", "http://localhost:3000")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_PROJECT_ID")
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")
	t.Setenv("CLIENT_URL", "http://localhost:3000")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
}

func TestLoadConfigRequiresClientURL(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "eyJ9")
	t.Setenv("CLIENT_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_URL")
}
