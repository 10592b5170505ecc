package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	out  string
	logs string
	err  error
}

// useTempEnv points the config at an empty directory and the database at a
// file inside it
func useTempEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DISCOVERY_DATABASE_PATH", filepath.Join(dir, "discovery.db"))
	t.Setenv("DISCOVERY_CACHE_BACKEND", "memory")
	return dir
}

// execute runs the shared root command with fresh flag values and ctx
// propagated to every subcommand
func execute(t *testing.T, ctx context.Context, args ...string) result {
	t.Helper()
	if ctx == nil {
		ctx = context.Background()
	}

	root := NewRootCmd()
	resetCommand(root, ctx)

	var out, logs bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)

	err := root.Execute()
	return result{out: out.String(), logs: logs.String(), err: err}
}

func resetCommand(cmd *cobra.Command, ctx context.Context) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetContext(ctx)
	for _, child := range cmd.Commands() {
		resetCommand(child, ctx)
	}
}

func configArg(dir string) string {
	return "--config=" + filepath.Join(dir, "missing.yaml")
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			expectedOutput: "Blog Discovery API",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			expectedOutput: "Available Commands:",
		},
		{
			name:    "root command with invalid flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, tt.args...)
			if tt.wantErr {
				assert.Error(t, res.err)
				return
			}
			require.NoError(t, res.err)
			assert.Contains(t, res.out, tt.expectedOutput)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"serve", "migrate", "seed", "search", "version"} {
		found, _, err := NewRootCmd().Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logFlag)
	assert.Equal(t, "info", logFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("json-logs"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestLoadConfig_InvalidSettings(t *testing.T) {
	dir := useTempEnv(t)
	t.Setenv("DISCOVERY_SEARCH_MAX_LIMIT", "500")

	res := execute(t, nil, "migrate", "up", configArg(dir))

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid configuration")
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	dir := useTempEnv(t)

	res := execute(t, nil, "migrate", "up", configArg(dir), "--json-logs", "--log-level", "debug")

	require.NoError(t, res.err)
	require.NotNil(t, appConfig)
	assert.Equal(t, filepath.Join(dir, "discovery.db"), appConfig.Database.Path)
	assert.Equal(t, "memory", appConfig.Cache.Backend)
}
