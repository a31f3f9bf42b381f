package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "nodemap", cmd.Use)
	assert.Contains(t, cmd.Long, "labeled graphs")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"validate"}, {"prune"}, {"simulate"}, {"render"}, {"import"}, {"test"},
		{"library"}, {"library", "save"}, {"library", "load"}, {"library", "list"},
		{"library", "history"}, {"library", "delete"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestLibraryDBFlag(t *testing.T) {
	cmd := NewRootCommand()
	libCmd, _, err := cmd.Find([]string{"library", "list"})
	require.NoError(t, err)

	dbFlag := libCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag, "--db is inherited by library subcommands")
}

func TestInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", sampleMap)

	_, err := execute(t, "validate", path, "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", sampleMap)
	bad := writeFile(t, dir, "bad.cue", `preset: "frantic"`)

	cmd := NewRootCommand()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.SetArgs([]string{"validate", path})
	t.Setenv(EnvConfig, bad)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", sampleMap)
	good := writeFile(t, dir, "lively.cue", `preset: "lively"`)

	_, err := execute(t, "--config", good, "validate", path)
	require.NoError(t, err)

	missing := dir + "/missing.cue"
	_, err = execute(t, "--config", missing, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
