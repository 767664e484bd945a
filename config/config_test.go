package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/config"
)

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chirp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	tcs := map[string]struct {
		args []string
		want string
		err  error
	}{
		"no flags": {
			args: nil,
			want: "",
		},
		"file level": {
			args: []string{"--config", path},
			want: "info",
		},
		"override": {
			args: []string{"--config", path, "--min-level", "error"},
			want: "error",
		},
		"override without file": {
			args: []string{"--min-level", "warn"},
			want: "warn",
		},
		"bad override": {
			args: []string{"--min-level", "shout"},
			err:  chirp.ErrUnknownLevel,
		},
		"missing file": {
			args: []string{"--config", path + ".missing"},
			err:  config.ErrReadConfig,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cmd := &cobra.Command{Use: "test"}
			cfg.RegisterFlags(cmd.Flags())
			require.NoError(t, cmd.Flags().Parse(tc.args))

			f, err := cfg.Load()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Level)
		})
	}
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	fn, ok := cmd.GetFlagCompletionFunc("min-level")
	require.True(t, ok)

	values, directive := fn(cmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, chirp.GetAllLevelStrings(), values)

	fn, ok = cmd.GetFlagCompletionFunc("config")
	require.True(t, ok)

	values, directive = fn(cmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveFilterFileExt, directive)
	assert.Equal(t, []string{"yaml", "yml", "toml"}, values)
}
