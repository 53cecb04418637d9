package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestIsEnvComplete(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	tmpl := filepath.Join(dir, ".env.template")
	writeFile(t, tmpl, "LLM_MODEL=\nOLLAMA_MODEL=\n")

	ok, err := IsEnvComplete(env, tmpl)
	require.NoError(t, err)
	assert.False(t, ok, "missing env file")

	writeFile(t, env, "LLM_MODEL=ollama\nOLLAMA_MODEL=\n")
	ok, err = IsEnvComplete(env, tmpl)
	require.NoError(t, err)
	assert.False(t, ok, "empty value")

	writeFile(t, env, "LLM_MODEL=ollama\nOLLAMA_MODEL=llama3\nEXTRA=1\n")
	ok, err = IsEnvComplete(env, tmpl)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsEnvCompleteDefaultTemplate(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	writeFile(t, env, "LLM_MODEL=ollama\nOLLAMA_MODEL=llama3\n")

	ok, err := IsEnvComplete(env, filepath.Join(dir, "missing.template"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunEnvSetup(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	tmpl := filepath.Join(dir, ".env.template")
	writeFile(t, tmpl, "GEMINI_API_KEY=\nLLM_MODEL=ollama\nOLLAMA_MODEL=\n")
	writeFile(t, env, "OLLAMA_MODEL=phi3\n")

	// GEMINI_API_KEY left blank, LLM_MODEL keeps the template default,
	// OLLAMA_MODEL overridden
	in := strings.NewReader("\n\nmistral\n")
	var out bytes.Buffer
	require.NoError(t, RunEnvSetup(in, &out, env, tmpl))

	got, err := godotenv.Read(env)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"LLM_MODEL":    "ollama",
		"OLLAMA_MODEL": "mistral",
	}, got)

	assert.Contains(t, out.String(), "OLLAMA_MODEL [phi3]: ")
	assert.Contains(t, out.String(), "Environment setup complete!")
}

func TestResetEnv(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")

	removed, err := ResetEnv(env)
	require.NoError(t, err)
	assert.False(t, removed)

	writeFile(t, env, "LLM_MODEL=ollama\n")
	removed, err = ResetEnv(env)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, env)
}

func TestLoadEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}
