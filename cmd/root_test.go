package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/presenter"
	"github.com/spigell/rh-pro/internal/staging"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadConfigFile makes viper read content as the config file and resets viper
// to its flag, env and default bindings afterwards.
func loadConfigFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "rh-pro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	t.Cleanup(func() {
		viper.Reset()
		bindConfig()
	})
}

func TestGetConfigDefaults(t *testing.T) {
	t.Setenv("RH_PRO_ENDPOINT", "")
	loadConfigFile(t, "{}\n")

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, analysis.DefaultEndpoint, config.Service.Endpoint)
	assert.Equal(t, defaultTimeout, config.Service.Timeout)
	assert.Equal(t, defaultMaxLogLength, config.Service.MaxLogLength)
	assert.Equal(t, staging.DefaultExtensions, config.Form.AcceptedExtensions)
	assert.Equal(t, presenter.DefaultPlaceholderCount, config.Form.PlaceholderCount)
}

func TestGetConfigFromFile(t *testing.T) {
	t.Setenv("RH_PRO_ENDPOINT", "")
	loadConfigFile(t, `
service:
  endpoint: https://analysis.example.com/analyze/
  timeout: 45s
  user-agent: recruiting-team
form:
  accepted-extensions: [".pdf"]
  placeholder-count: 5
`)

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://analysis.example.com/analyze/", config.Service.Endpoint)
	assert.Equal(t, 45*time.Second, config.Service.Timeout)
	assert.Equal(t, "recruiting-team", config.Service.UserAgent)
	assert.Equal(t, []string{".pdf"}, config.Form.AcceptedExtensions)
	assert.Equal(t, 5, config.Form.PlaceholderCount)
}

func TestGetConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("RH_PRO_ENDPOINT", "http://127.0.0.1:9000/analyze/")
	loadConfigFile(t, "service:\n  endpoint: https://analysis.example.com/analyze/\n")

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/analyze/", config.Service.Endpoint)
}

func TestGetConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "non http endpoint", content: "service:\n  endpoint: ftp://files.example.com/\n"},
		{name: "not a url", content: "service:\n  endpoint: localhost\n"},
		{name: "zero timeout", content: "service:\n  timeout: 0s\n"},
		{name: "negative placeholders", content: "form:\n  placeholder-count: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RH_PRO_ENDPOINT", "")
			loadConfigFile(t, tt.content)

			_, err := getConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestResolveToken(t *testing.T) {
	t.Setenv(tokenEnv, "")

	token, err := resolveToken(&ServiceConfig{})
	require.NoError(t, err)
	assert.Empty(t, token)

	t.Setenv(tokenEnv, "from-env")
	token, err = resolveToken(&ServiceConfig{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
	token, err = resolveToken(&ServiceConfig{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "from-file", token)

	_, err = resolveToken(&ServiceConfig{TokenFile: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}
