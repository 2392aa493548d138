// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
	"github.com/copland-phrase/copland/internal/xdg"
)

// defaultConfigPath is the ASP's conventional config file location,
// used only as the --config flag's default. A file need not exist
// there; LoadConfig silently skips a missing file.
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigDir(), "asp.yaml")
}

// Config holds the ASP's tunables: everything left configurable rather
// than fixed by the wire contract (the positional argv itself is not
// config — see cmd/verify-measurement-contract-asp).
type Config struct {
	MaxContractSize uint32        `koanf:"max_contract_size"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
}

// DefaultConfig mirrors the original's MAX_RECV_BUF_SZ/TIMEOUT constants.
func DefaultConfig() Config {
	return Config{
		MaxContractSize: 1 << 24,
		ReadTimeout:     DefaultReadTimeout,
	}
}

// RegisterFlags adds the config-layer flags to fs: CLI flags take
// precedence over a YAML config file, which takes precedence over
// DefaultConfig.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.Uint32("max-contract-size", d.MaxContractSize, "maximum accepted measurement contract size, in bytes")
	fs.Duration("read-timeout", d.ReadTimeout, "one-shot timeout for reading the contract from fd_in")
	fs.String("config", defaultConfigPath(), "path to an optional YAML config file")
}

// LoadConfig layers DefaultConfig, an optional YAML file (path read from
// the "config" flag), and fs's flags, in that increasing order of
// precedence.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	d := DefaultConfig()
	defaults := map[string]interface{}{
		"max_contract_size": d.MaxContractSize,
		"read_timeout":      d.ReadTimeout,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, coplerr.IoFailure("load default config", err)
	}

	if path, _ := fs.GetString("config"); path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, coplerr.IoFailure("load config file "+path, err)
			}
		} else if fs.Changed("config") {
			return Config{}, coplerr.IoFailure("load config file "+path, statErr)
		}
	}

	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return Config{}, coplerr.IoFailure("load flag overrides", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, coplerr.Malformed("config", err.Error())
	}
	return cfg, nil
}
