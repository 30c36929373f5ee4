package config

import (
	"os"
	"path/filepath"
	"testing"

	"talentscope/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLogger() *errors.Logger {
	// Return a real logger for testing since the interface is complex
	logger, _ := errors.New("debug")
	return logger
}

// Test parseVersionValue function
func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       interface{}
		path        string
		expected    int64
		expectError bool
	}{
		{
			name:     "int64 value",
			input:    int64(42),
			path:     "test/path",
			expected: 42,
		},
		{
			name:     "float64 value",
			input:    float64(42.0),
			path:     "test/path",
			expected: 42,
		},
		{
			name:     "string value",
			input:    "42",
			path:     "test/path",
			expected: 42,
		},
		{
			name:        "invalid string value",
			input:       "not-a-number",
			path:        "test/path",
			expectError: true,
		},
		{
			name:        "unsupported type",
			input:       []string{"42"},
			path:        "test/path",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, tt.path)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	geminiKey := "vault-gemini-key"
	config := &Config{
		AI: AIConfig{
			Extract:   OperationAIConfig{},
			Interview: OperationAIConfig{},
			Evaluate:  OperationAIConfig{},
		},
	}

	applyGeminiKeyToConfig(config, geminiKey)

	assert.Equal(t, geminiKey, config.AI.APIKey)
	assert.Equal(t, geminiKey, config.AI.Extract.APIKey)
	assert.Equal(t, geminiKey, config.AI.Interview.APIKey)
	assert.Equal(t, geminiKey, config.AI.Evaluate.APIKey)
}

func TestApplyGeminiKeyToConfigPreservesExisting(t *testing.T) {
	geminiKey := "vault-gemini-key"
	existingExtractKey := "existing-extract-key"
	config := &Config{
		AI: AIConfig{
			Extract:   OperationAIConfig{APIKey: existingExtractKey},
			Interview: OperationAIConfig{},
			Evaluate:  OperationAIConfig{},
		},
	}

	applyGeminiKeyToConfig(config, geminiKey)

	assert.Equal(t, geminiKey, config.AI.APIKey)
	assert.Equal(t, existingExtractKey, config.AI.Extract.APIKey) // Should not overwrite existing
	assert.Equal(t, geminiKey, config.AI.Interview.APIKey)
	assert.Equal(t, geminiKey, config.AI.Evaluate.APIKey)
}

func TestVaultGeminiKeyWinsOverGlobalValue(t *testing.T) {
	// The global key may have come from the config file or environment;
	// a Vault-sourced key replaces it and flows into every operation
	// config that has no explicit key of its own.
	config := &Config{
		AI: AIConfig{
			APIKey:    "env-key",
			Extract:   OperationAIConfig{},
			Interview: OperationAIConfig{},
			Evaluate:  OperationAIConfig{},
		},
	}

	applyGeminiKeyToConfig(config, "vault-key")

	assert.Equal(t, "vault-key", config.AI.APIKey)
	assert.Equal(t, "vault-key", config.GetExtractConfig().APIKey)
	assert.Equal(t, "vault-key", config.GetInterviewConfig().APIKey)
	assert.Equal(t, "vault-key", config.GetEvaluateConfig().APIKey)
}

func TestResolveVaultToken(t *testing.T) {
	logger := newMockLogger()

	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0o600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.Error(t, err)
	})

	t.Run("unreadable token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: filepath.Join(t.TempDir(), "missing")}, logger)
		assert.Error(t, err)
	})
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, newMockLogger())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestGetSecretV2NilClient(t *testing.T) {
	var client *VaultClient
	_, err := client.GetSecretV2("secret/data/test")
	assert.Error(t, err)
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(config, newMockLogger()))
}
