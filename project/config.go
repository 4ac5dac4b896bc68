package project

import (
	"fmt"

	"github.com/dchest/assethat/assets"
	"github.com/dchest/assethat/engine"
	"github.com/dchest/assethat/filewriter"
	"github.com/dchest/assethat/utils"
)

const (
	ConfigFileName   = "config/assets.yml"
	CacheFileName    = "tmp/assethat.cache"
	DefaultAssetsDir = "public"
)

type Config struct {
	// Loadable from YAML.
	AssetsDir string                     `yaml:"assets_dir"`
	JS        *assets.TypeConfig         `yaml:"js"`
	CSS       *assets.TypeConfig         `yaml:"css"`
	Compress  *filewriter.CompressConfig `yaml:"compress"`
}

func readConfig(filename string) (*Config, error) {
	var c Config
	if err := utils.UnmarshallYAMLFile(filename, &c); err != nil {
		return nil, err
	}
	// Set defaults.
	if c.AssetsDir == "" {
		c.AssetsDir = DefaultAssetsDir
	}
	for _, t := range assets.Types() {
		if tc := c.Type(t); tc != nil && tc.Engine == "" {
			tc.Engine = t.DefaultEngine
		}
	}
	return &c, nil
}

// Type returns configuration for the given asset type or nil.
func (c *Config) Type(t *assets.Type) *assets.TypeConfig {
	switch t {
	case assets.JS:
		return c.JS
	case assets.CSS:
		return c.CSS
	}
	return nil
}

// Engine returns the configured engine name for the given type.
func (c *Config) Engine(t *assets.Type) engine.Name {
	if tc := c.Type(t); tc != nil {
		return tc.Engine
	}
	return t.DefaultEngine
}

// ConfigError is returned when required input is missing
// or the configuration doesn't describe what was requested.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
