package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is looked up in the specs directory when --config is not given.
const ConfigFileName = ".numberenum.yaml"

// EnvPrefix prefixes environment overrides, e.g. NUMBERENUM_WIDTH_POLICY.
const EnvPrefix = "NUMBERENUM"

// Config keys.
const (
	KeyPackage     = "package"
	KeyOutput      = "output"
	KeyWidthPolicy = "width_policy"
	KeyLedger      = "ledger"
)

// config returns the command tree's viper instance, creating it on first use.
// Precedence is flag, then environment, then config file, then default.
func (o *RootOptions) config() *viper.Viper {
	if o.v == nil {
		v := viper.New()
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		v.SetDefault(KeyOutput, ".")
		v.SetDefault(KeyWidthPolicy, "compat")
		o.v = v
	}
	return o.v
}

// loadConfig reads --config, or the specs directory's config file if one
// exists. A missing default file is not an error.
func (o *RootOptions) loadConfig(specsDir string) (string, error) {
	v := o.config()

	path := o.ConfigFile
	if path == "" {
		candidate := filepath.Join(specsDir, ConfigFileName)
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("reading config: %w", err)
		}
		path = candidate
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading config %s: %w", path, err)
	}
	return path, nil
}
