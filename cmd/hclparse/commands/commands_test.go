package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

// runCLI executes the root command with args.  Flag values live in package
// variables and survive between runs, so every flag is reset first.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	empty := fs.NewDir(t, "cli-config", fs.WithFile("hclparse.toml", ""))
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "never", "--config", empty.Join("hclparse.toml")}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	dir := fs.NewDir(t, "cli",
		fs.WithFile("good.hcl", "a = 1\nb = [a, 2]\n"),
		fs.WithFile("short.hcl", "a = [1\nb = 2\n"),
		fs.WithFile("long.hcl", "a = [\n  1,\n  2\nb = 3\n"),
	)

	stdout, _, err := runCLI(t, "validate", dir.Join("good.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "1 file ok\n", stdout)

	_, stderr, err := runCLI(t, "validate", dir.Join("short.hcl"))
	require.Error(t, err)
	assert.Equal(t, "validation failed: 1 error", err.Error())
	assert.Contains(t, stderr, dir.Join("short.hcl")+":1:7: error: unterminated '[' opened at 1:5")
	assert.Contains(t, stderr, "  a = [1\n        ^\n")
	assert.NotContains(t, stderr, "note:")
	assert.Contains(t, stderr, "1 error in 1 file\n")

	_, stderr, err = runCLI(t, "validate", dir.Join("long.hcl"))
	require.Error(t, err)
	assert.Contains(t, stderr, dir.Join("long.hcl")+":3:4: error: unterminated '['")
	assert.Contains(t, stderr, dir.Join("long.hcl")+":1:5: note: '[' opened here")
}

func TestValidateDirAndLimits(t *testing.T) {
	dir := fs.NewDir(t, "cli",
		fs.WithFile("one.hcl", "a = 1\n"),
		fs.WithFile("two.hcl", "b = {x = 1}\n"),
		fs.WithFile("notes.txt", "not parsed = [\n"),
	)
	stdout, _, err := runCLI(t, "validate", dir.Path())
	require.NoError(t, err)
	assert.Equal(t, "2 files ok\n", stdout)

	bad := fs.NewDir(t, "cli", fs.WithFile("many.hcl", "1\n2\n3\n"))
	_, stderr, err := runCLI(t, "--max-errors", "1", "validate", bad.Join("many.hcl"))
	require.Error(t, err)
	assert.Equal(t, "validation failed: 3 errors", err.Error())
	assert.Contains(t, stderr, "... and 2 more")

	_, _, err = runCLI(t, "--max-input-bytes", "4", "validate", bad.Join("many.hcl"))
	require.Error(t, err)

	empty := fs.NewDir(t, "cli", fs.WithFile("notes.txt", "x"))
	_, _, err = runCLI(t, "validate", empty.Path())
	assert.ErrorContains(t, err, "no .hcl files found")

	_, stderr, err = runCLI(t, "validate", dir.Join("missing.hcl"))
	require.Error(t, err)
	assert.Contains(t, stderr, "missing.hcl: error: reading")
}

func TestParseFormats(t *testing.T) {
	dir := fs.NewDir(t, "cli", fs.WithFile("a.hcl", "a = 1\nb = [for x in xs : x.name]\n"))

	stdout, _, err := runCLI(t, "parse", dir.Join("a.hcl"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "1:1-1:6\ta = 1\n")

	stdout, _, err = runCLI(t, "parse", "--format", "json", dir.Join("a.hcl"))
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &tree))
	assert.Equal(t, "File", tree["type"])
	assert.Len(t, tree["attributes"], 2)

	stdout, _, err = runCLI(t, "parse", "--format", "yaml", dir.Join("a.hcl"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "type: ForTuple")

	_, _, err = runCLI(t, "parse", "--format", "xml", dir.Join("a.hcl"))
	assert.ErrorContains(t, err, "unknown format")
}

func TestFmt(t *testing.T) {
	dir := fs.NewDir(t, "cli",
		fs.WithFile("a.hcl", "a=[1,2]\n\nb={x=1}\n"),
		fs.WithFile("bad.hcl", "a = [1\n"),
	)

	stdout, _, err := runCLI(t, "fmt", dir.Join("a.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "a = [1, 2]\nb = {x = 1}\n", stdout)

	stdout, _, err = runCLI(t, "fmt", "-l", dir.Join("a.hcl"))
	require.NoError(t, err)
	assert.Equal(t, dir.Join("a.hcl")+"\n", stdout)

	_, _, err = runCLI(t, "fmt", "-w", dir.Join("a.hcl"), dir.Join("bad.hcl"))
	require.Error(t, err)
	data, err := os.ReadFile(dir.Join("a.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "a = [1, 2]\nb = {x = 1}\n", string(data))
	data, err = os.ReadFile(dir.Join("bad.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "a = [1\n", string(data))

	stdout, _, err = runCLI(t, "fmt", "-l", dir.Join("a.hcl"))
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestTokens(t *testing.T) {
	dir := fs.NewDir(t, "cli",
		fs.WithFile("a.hcl", "a = 1\n"),
		fs.WithFile("lex.hcl", "a = #\n"),
	)
	stdout, _, err := runCLI(t, "tokens", dir.Join("a.hcl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "IDENTIFIER")
	assert.Contains(t, lines[0], `"a"`)
	assert.Contains(t, lines[4], "EOF")

	_, stderr, err := runCLI(t, "--max-input-bytes", "5", "tokens", dir.Join("a.hcl"))
	require.Error(t, err)
	assert.Contains(t, stderr, "input exceeds maximum size")

	stdout, stderr, err = runCLI(t, "tokens", dir.Join("lex.hcl"))
	require.Error(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 2)
	assert.Contains(t, stderr, dir.Join("lex.hcl")+":1:5: error:")
}

func TestVersionAndConfigErrors(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hclparse dev\n", stdout)

	_, _, err = runCLI(t, "--color", "purple", "version")
	assert.ErrorContains(t, err, "color must be auto, always or never")
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]*cobra.Command)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = c
	}
	for _, name := range []string{"tokens", "parse", "validate", "fmt", "version"} {
		assert.Contains(t, names, name)
	}
}
