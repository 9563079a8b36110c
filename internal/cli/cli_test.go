package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tabs = `
screens:
  - name: a
  - name: b
    veto_close: true
script:
  - op: start
  - op: open
    screen: a
  - op: open
    screen: b
  - op: close
    screen: b
    expect_error: true
`

// executeCommand runs the root command with args against a fresh viper and
// flag state and returns the captured output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	viper.Reset()
	t.Cleanup(viper.Reset)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	bindFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "screenmesh", rootCmd.Use)

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, expected := range []string{"run", "validate", "config"} {
		assert.True(t, names[expected], "missing subcommand %q", expected)
	}
}

func TestRun_PrintsJournal(t *testing.T) {
	path := writeFile(t, "tabs.yaml", tabs)

	out, err := executeCommand(t, "run", path)
	require.NoError(t, err)

	assert.Contains(t, out, "> open a\na:initialize\na:activate\na:Activated(init)\n< open a: ok\n")
	assert.Contains(t, out, "b:can_close\n")
	assert.Contains(t, out, "< close b: error: ")
}

func TestRun_ForceStrategyFromEnvironment(t *testing.T) {
	path := writeFile(t, "tabs.yaml", tabs)
	t.Setenv("SCREENMESH_HOST_CLOSE_STRATEGY", "force")

	out, err := executeCommand(t, "run", path)
	require.Error(t, err, "the forced close succeeds although the step expects an error")
	assert.Contains(t, err.Error(), "expected an error")
	assert.Contains(t, out, "< close b: ok")
	assert.NotContains(t, out, "b:can_close")
}

func TestRun_RootKindFromConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "host:\n  root: all_active\nlogging:\n  format: json\n")
	path := writeFile(t, "two.yaml", `
screens:
  - name: a
  - name: b
script:
  - op: start
  - op: open
    screen: a
  - op: open
    screen: b
`)

	out, err := executeCommand(t, "--config", cfgPath, "run", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "a:deactivate", "an all_active root keeps a active")
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		_, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeFile(t, "tabs.yaml", tabs)
		t.Setenv("SCREENMESH_HOST_ROOT", "tree")

		_, err := executeCommand(t, "run", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "host.root")
	})

	t.Run("missing config file", func(t *testing.T) {
		path := writeFile(t, "tabs.yaml", tabs)

		_, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "run", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})

	t.Run("failing step still prints the journal", func(t *testing.T) {
		path := writeFile(t, "fail.yaml", "screens:\n  - name: a\n    fail_init: true\nscript:\n  - op: start\n  - op: open\n    screen: a\n")

		out, err := executeCommand(t, "run", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 1 (open a)")
		assert.Contains(t, out, "a:initialize")
	})
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "tabs.yaml", tabs)
	nested := writeFile(t, "nested.yaml", "screens:\n  - name: p\n    kind: one_active\n    children:\n      - name: x\n      - name: y\n")

	out, err := executeCommand(t, "validate", good, nested)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok (2 screens, 4 steps)")
	assert.Contains(t, out, nested+": ok (3 screens, 0 steps)")

	bad := writeFile(t, "bad.yaml", "screens:\n  - name: a\n    kind: window\n")
	_, err = executeCommand(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestConfigShow(t *testing.T) {
	out, err := executeCommand(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "root: one_active")
	assert.Contains(t, out, "close_strategy: default")
	assert.Contains(t, out, "level: warn")

	cfgPath := writeFile(t, "config.yaml", "logging:\n  level: debug\n")
	out, err = executeCommand(t, "--config", cfgPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+cfgPath)
	assert.Contains(t, out, "level: debug")
}

func TestLogLevelFlag(t *testing.T) {
	out, err := executeCommand(t, "--log-level", "error", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "level: error")
}

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, "text", resolveFormat("text", new(bytes.Buffer)))
	assert.Equal(t, "json", resolveFormat("json", os.Stderr))
	assert.Equal(t, "json", resolveFormat("auto", new(bytes.Buffer)), "buffers are not terminals")

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "json", resolveFormat("auto", f), "regular files are not terminals")
}

func TestRun_AutoFormatWritesJSONToBuffers(t *testing.T) {
	path := writeFile(t, "tabs.yaml", tabs)
	t.Setenv("SCREENMESH_LOGGING_FORMAT", "auto")

	out, err := executeCommand(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"component":"host"`, "the vetoed close is logged as json")
}
