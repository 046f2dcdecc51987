package pkgjson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
  "name": "demo-app",
  "version": "0.1.0",
  "type": "module",
  "scripts": {
    "dev": "astro dev",
    "build": "astro build"
  },
  "dependencies": {
    "astro": "^4.0.0"
  }
}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoadReadsFields(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	f, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo-app", f.Name())
	assert.Equal(t, "", f.Main())
	assert.Equal(t, map[string]string{"dev": "astro dev", "build": "astro build"}, f.Scripts())
	assert.True(t, f.HasDependency("astro"))
	assert.False(t, f.HasDependency("electron"))
	assert.False(t, f.Dirty())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadInvalid(t *testing.T) {
	dir := writeManifest(t, `["not", "an", "object"]`)
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPatchAndSave(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	f, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, f.SetMain("desktop/main.js"))
	require.NoError(t, f.MergeScripts(map[string]string{
		"build": "should-not-overwrite",
		"desktop": "deskwrap build",
	}))
	require.NoError(t, f.AddDevDependencies(map[string]string{"electron": "^31.0.0"}))
	assert.True(t, f.Dirty())
	require.NoError(t, f.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "desktop/main.js", reloaded.Main())
	assert.Equal(t, "astro build", reloaded.Scripts()["build"], "existing scripts are never clobbered")
	assert.Equal(t, "deskwrap build", reloaded.Scripts()["desktop"])
	assert.Equal(t, "^31.0.0", reloaded.DevDependencies()["electron"])
}

func TestSaveSkipsCleanFile(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	path := filepath.Join(dir, FileName)

	f, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, f.SetMain(""))
	require.NoError(t, f.MergeScripts(map[string]string{"build": "astro build"}))
	require.NoError(t, f.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleManifest, string(data), "clean file must stay byte-identical on disk")
	assert.False(t, f.Dirty())
}

func TestKeyOrderPreserved(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	f, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, f.SetMain("desktop/main.js"))

	data, err := f.Bytes()
	require.NoError(t, err)
	text := string(data)

	nameIdx := strings.Index(text, `"name"`)
	versionIdx := strings.Index(text, `"version"`)
	scriptsIdx := strings.Index(text, `"scripts"`)
	mainIdx := strings.Index(text, `"main"`)
	require.NotEqual(t, -1, mainIdx)
	assert.Less(t, nameIdx, versionIdx)
	assert.Less(t, versionIdx, scriptsIdx)
	assert.Less(t, scriptsIdx, mainIdx, "new keys append after existing ones")
}

func TestPatchIdempotent(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	f, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, f.SetMain("desktop/main.js"))
	require.NoError(t, f.Save())

	again, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, again.SetMain("desktop/main.js"))
	require.NoError(t, again.MergeScripts(map[string]string{"build": "astro build"}))
	assert.False(t, again.Dirty(), "reapplying the same patch must not dirty the file")
}

func TestNoHTMLEscaping(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	f, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, f.MergeScripts(map[string]string{"fetch": "curl 'https://example.com?a=1&b=2'"}))

	data, err := f.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(data), "a=1&b=2", "ampersands must not become unicode escapes")
}
