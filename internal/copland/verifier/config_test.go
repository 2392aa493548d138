// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copland-phrase/copland/internal/copland/verifier"
)

func TestLoadConfig_Defaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	verifier.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := verifier.LoadConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, verifier.DefaultConfig(), cfg)
}

func TestLoadConfig_MissingDefaultConfigPathIsNotAnError(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	verifier.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.False(t, fs.Changed("config"), "config flag's XDG-derived default should not count as explicitly set")

	_, err := verifier.LoadConfig(fs)
	require.NoError(t, err, "an unset --config pointing at a nonexistent conventional path must not fail the load")
}

func TestLoadConfig_ExplicitMissingConfigPathErrors(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	verifier.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config=/nonexistent/asp.yaml"}))

	_, err := verifier.LoadConfig(fs)
	require.Error(t, err, "an explicitly passed --config path that doesn't exist must be an error")
}

func TestLoadConfig_FlagOverridesDefault(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	verifier.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--read-timeout=5s"}))

	cfg, err := verifier.LoadConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
}

func TestLoadConfig_FileOverridesDefaultButNotFlag(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "asp.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("max_contract_size: 1024\nread_timeout: 2s\n"), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	verifier.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config=" + configPath, "--read-timeout=9s"}))

	cfg, err := verifier.LoadConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), cfg.MaxContractSize, "file value used where flag was not explicitly set")
	assert.Equal(t, 9*time.Second, cfg.ReadTimeout, "explicit flag wins over file")
}
