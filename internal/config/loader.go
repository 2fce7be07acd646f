package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vppkit/sdkbuild/internal/domain"
)

// Load reads an optional YAML override file on top of the defaults.
// An empty path returns the defaults untouched. Only fields present in the
// file replace their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindConfiguration,
			Path: path,
			Err:  err,
		}
	}

	var override fileOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindConfiguration,
			Path: path,
			Err:  fmt.Errorf("invalid yaml: %w", err),
		}
	}

	override.apply(&cfg)
	return cfg, nil
}

// fileOverride mirrors Config with pointer fields so absent keys can be
// told apart from zero values.
type fileOverride struct {
	Bindings struct {
		SysRoot   *string   `yaml:"sys_root"`
		Dest      *string   `yaml:"dest"`
		Generator *string   `yaml:"generator"`
		Ignore    *[]string `yaml:"ignore"`
	} `yaml:"bindings"`
	Artifacts struct {
		Arches              *[]ArchEntry `yaml:"arches"`
		Base                *Package     `yaml:"base"`
		Plugin              *Package     `yaml:"plugin"`
		Library             *string      `yaml:"library"`
		FetchTimeoutSeconds *int         `yaml:"fetch_timeout_seconds"`
	} `yaml:"artifacts"`
}

func (o *fileOverride) apply(cfg *Config) {
	if o.Bindings.SysRoot != nil {
		cfg.Bindings.SysRoot = *o.Bindings.SysRoot
	}
	if o.Bindings.Dest != nil {
		cfg.Bindings.Dest = *o.Bindings.Dest
	}
	if o.Bindings.Generator != nil {
		cfg.Bindings.Generator = *o.Bindings.Generator
	}
	if o.Bindings.Ignore != nil {
		cfg.Bindings.Ignore = *o.Bindings.Ignore
	}
	if o.Artifacts.Arches != nil {
		cfg.Artifacts.Arches = *o.Artifacts.Arches
	}
	if o.Artifacts.Base != nil {
		cfg.Artifacts.Base = *o.Artifacts.Base
	}
	if o.Artifacts.Plugin != nil {
		cfg.Artifacts.Plugin = *o.Artifacts.Plugin
	}
	if o.Artifacts.Library != nil {
		cfg.Artifacts.Library = *o.Artifacts.Library
	}
	if o.Artifacts.FetchTimeoutSeconds != nil {
		cfg.Artifacts.FetchTimeoutSeconds = *o.Artifacts.FetchTimeoutSeconds
	}
}
