package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretsFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json.enc")
	secrets := map[string]string{
		"OPENAI_API_KEY":    "sk-local",
		"ANTHROPIC_API_KEY": "sk-ant-local",
	}

	require.NoError(t, EncryptSecretsFile(path, "hunter2", secrets))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	decrypted, err := DecryptSecretsFile(path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, secrets, decrypted)
}

func TestDecryptSecretsFileWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json.enc")
	require.NoError(t, EncryptSecretsFile(path, "hunter2", map[string]string{"K": "v"}))

	_, err := DecryptSecretsFile(path, "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestDecryptSecretsFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json.enc")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0600))

	_, err := DecryptSecretsFile(path, "hunter2")
	assert.Error(t, err)
}

func TestMaybeLoadSecretsFileSkipsOnCI(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, MaybeLoadSecretsFile())
}

func TestMaybeLoadSecretsFileSkipsWithoutFile(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("CI", "")
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, MaybeLoadSecretsFile())
}

func TestMaybeLoadSecretsFileSkipsWithoutTerminal(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("CI", "")

	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".valuesgen", "secrets.json.enc")
	require.NoError(t, EncryptSecretsFile(path, "hunter2", map[string]string{"K": "v"}))
	require.True(t, SecretsFileExists())

	// Test stdin is not a terminal, so the file must be left alone rather
	// than hanging on a passphrase prompt.
	assert.NoError(t, MaybeLoadSecretsFile())
}

func TestResolveTokenUsesDecryptedSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	SetDecryptedSecrets(map[string]string{"OPENAI_API_KEY": "sk-from-file"})
	t.Cleanup(func() { SetDecryptedSecrets(nil) })

	token, err := ResolveToken(ProviderOpenAI, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", token)
}

func TestGetSecretPrecedence(t *testing.T) {
	t.Setenv("VALUESGEN_TEST_SECRET", "from-env")

	SetDecryptedSecrets(map[string]string{"VALUESGEN_TEST_SECRET": "from-file"})
	t.Cleanup(func() { SetDecryptedSecrets(nil) })

	value, err := GetSecret("VALUESGEN_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)

	SetDecryptedSecrets(nil)
	value, err = GetSecret("VALUESGEN_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)

	_, err = GetSecret("VALUESGEN_TEST_SECRET_ABSENT")
	assert.Error(t, err)

	_, err = GetSecret("")
	assert.Error(t, err)
}
