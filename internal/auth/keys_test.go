package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	// Second load must hand back the same key or tokens stop verifying.
	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_CreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	_, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, authKeyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrGenerateKey_RejectsCorruptKeyFile(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"truncated", "abcd1234"},
		{"not hex", string(make([]byte, keyHexLength))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, authKeyFile), []byte(tt.contents), 0o600))

			_, err := LoadOrGenerateKey(dir)
			require.Error(t, err)
		})
	}
}
