package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadUI(t *testing.T, path string) UIConfig {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg.UI
}

func TestSaveUI_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	ui := Defaults().UI
	ui.ChangesOnly = true
	require.NoError(t, SaveUI(path, ui))

	require.Equal(t, ui, loadUI(t, path))
}

func TestSaveUI_PreservesOtherConfigAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# top comment
diff:
  debounce: 250ms  # quick
ui:
  changes_only: false  # toggled from the app
  custom_key: kept
watch: true
`
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	ui := Defaults().UI
	ui.ChangesOnly = true
	require.NoError(t, SaveUI(path, ui))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# top comment")
	assert.Contains(t, content, "debounce: 250ms # quick")
	assert.Contains(t, content, "changes_only: true # toggled from the app")
	assert.Contains(t, content, "custom_key: kept")
	assert.Contains(t, content, "watch: true")

	require.Equal(t, ui, loadUI(t, path))
}

func TestSaveUI_OverwritesScalarUISection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui: nope\n"), 0o600))

	require.NoError(t, SaveUI(path, Defaults().UI))
	require.Equal(t, Defaults().UI, loadUI(t, path))
}

func TestSaveUI_RejectsNonMappingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	require.Error(t, SaveUI(path, Defaults().UI))
}

func TestSaveUI_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui: [unclosed\n"), 0o600))
	require.ErrorContains(t, SaveUI(path, Defaults().UI), "parsing config")
}

func TestSaveUI_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveUI(path, Defaults().UI))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
