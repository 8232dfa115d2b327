package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lazyext/internal/fsys/fsystest"
)

// newRoot creates an extension root holding the base fixture extensions
// and points HOME at a scratch directory so no user config is read.
func newRoot(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	fsystest.InsertTree(t, afero.NewOsFs(), fsystest.InstalledDir(root), fsystest.BaseTree())
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootDir, logLevel, verbose = "", "", false
	listGrammars, listLanguages, listThemes = false, false, false
	removeForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestList_All(t *testing.T) {
	root := newRoot(t)

	out, err := execute(t, "", "list", "--root", root)
	require.NoError(t, err)

	assert.Contains(t, out, "Grammars (2):")
	assert.Contains(t, out, "Languages (2):")
	assert.Contains(t, out, "Themes (4):")
	assert.Contains(t, out, "[grammar: embedded_template]")
	assert.Contains(t, out, "Monokai Pro Light")
	assert.FileExists(t, filepath.Join(root, "manifest.yaml"))
}

func TestList_OnlyThemes(t *testing.T) {
	root := newRoot(t)

	out, err := execute(t, "", "list", "--themes", "--root", root)
	require.NoError(t, err)

	assert.Contains(t, out, "Themes (4):")
	assert.NotContains(t, out, "Grammars")
	assert.NotContains(t, out, "Languages")
}

func TestList_Empty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	out, err := execute(t, "", "list", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No extensions installed")
	assert.DirExists(t, filepath.Join(root, "installed"))
}

func TestInfo(t *testing.T) {
	root := newRoot(t)

	out, err := execute(t, "", "info", "Ruby", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Language: Ruby")
	assert.Contains(t, out, "Grammar: ruby (resolved)")
	assert.Contains(t, out, "Suffixes: rb")
	assert.Contains(t, out, filepath.Join(root, "installed", "zed-ruby", "languages", "ruby"))

	out, err = execute(t, "", "info", "ruby", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Grammar: ruby")
	assert.NotContains(t, out, "Language:")

	_, err = execute(t, "", "info", "Cobol", "--root", root)
	assert.ErrorContains(t, err, "not found")
}

func TestSync(t *testing.T) {
	root := newRoot(t)

	out, err := execute(t, "", "sync", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Synced. 2 grammar(s), 2 language(s), 4 theme(s), 0 change(s).")
}

func TestRemove(t *testing.T) {
	root := newRoot(t)
	extDir := filepath.Join(root, "installed", "zed-monokai")

	out, err := execute(t, "n\n", "remove", "zed-monokai", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.DirExists(t, extDir)

	out, err = execute(t, "", "remove", "zed-monokai", "--force", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully removed zed-monokai. 2 grammar(s), 2 language(s), 0 theme(s) remain.")
	assert.NoDirExists(t, extDir)

	_, err = execute(t, "", "remove", "zed-monokai", "--force", "--root", root)
	assert.ErrorContains(t, err, "not installed")
}

func TestConfigShowAndPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	out, err := execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lazyext", "config.toml")+"\n", out)

	out, err = execute(t, "", "config", "show", "--root", root, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "installed_dir:     "+filepath.Join(root, "installed"))
	assert.Contains(t, out, "log_level:         debug")

	_, err = execute(t, "", "config", "show", "--log-level", "loud")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, filepath.Join(home, ".lazyext", "config.toml"))
}
