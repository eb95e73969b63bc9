// Package config loads the host's own settings. Per-request editor
// settings arrive with each request; this file only tunes the host.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/machinefabric/exteditor-go/dispatch"
	"github.com/machinefabric/exteditor-go/frame"
)

// EnvPrefix prefixes environment overrides, e.g. EXTEDITOR_LOG_LEVEL
const EnvPrefix = "EXTEDITOR"

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of error, warn, info, debug, trace.
	Level string `mapstructure:"level" yaml:"level"`

	// File receives log output instead of standard error when set.
	File string `mapstructure:"file" yaml:"file"`
}

// TransportConfig holds frame channel settings.
type TransportConfig struct {
	// Codec is "json" (native messaging) or "cbor".
	Codec            string `mapstructure:"codec" yaml:"codec"`
	MaxInboundFrame  int    `mapstructure:"max_inbound_frame" yaml:"max_inbound_frame"`
	MaxOutboundFrame int    `mapstructure:"max_outbound_frame" yaml:"max_outbound_frame"`

	// ChunkBudget is the body size per response chunk in bytes.
	ChunkBudget int `mapstructure:"chunk_budget" yaml:"chunk_budget"`
}

// EditorConfig holds defaults for edit sessions.
type EditorConfig struct {
	// TemporaryDirectory is used when a request names none.
	TemporaryDirectory string `mapstructure:"temporary_directory" yaml:"temporary_directory"`

	// FallbackCharset decodes edited files that are not valid UTF-8.
	FallbackCharset string `mapstructure:"fallback_charset" yaml:"fallback_charset"`
}

// HostConfig is the top-level host configuration.
type HostConfig struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`
	Editor    EditorConfig    `mapstructure:"editor" yaml:"editor"`
}

// DefaultPath returns the default configuration file location,
// <user config dir>/external-editor-revived/host.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "host.yaml")
	}
	return filepath.Join(dir, "external-editor-revived", "host.yaml")
}

// Default returns the built-in configuration.
func Default() *HostConfig {
	limits := frame.DefaultLimits()
	return &HostConfig{
		Log: LogConfig{Level: "info"},
		Transport: TransportConfig{
			Codec:            "json",
			MaxInboundFrame:  limits.MaxInbound,
			MaxOutboundFrame: limits.MaxOutbound,
			ChunkBudget:      dispatch.DefaultChunkBudget,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("transport.codec", d.Transport.Codec)
	v.SetDefault("transport.max_inbound_frame", d.Transport.MaxInboundFrame)
	v.SetDefault("transport.max_outbound_frame", d.Transport.MaxOutboundFrame)
	v.SetDefault("transport.chunk_budget", d.Transport.ChunkBudget)
	v.SetDefault("editor.temporary_directory", d.Editor.TemporaryDirectory)
	v.SetDefault("editor.fallback_charset", d.Editor.FallbackCharset)
}

// Load reads configuration from the YAML file at path, then applies
// EXTEDITOR_* environment overrides. A missing file is not an error.
func Load(path string) (*HostConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings that cannot be clamped silently.
func (c *HostConfig) Validate() error {
	if _, err := frame.CodecByName(c.Transport.Codec); err != nil {
		return err
	}
	if c.Transport.MaxOutboundFrame > frame.MaxOutboundHardLimit {
		return fmt.Errorf("max_outbound_frame %d exceeds the transport limit %d",
			c.Transport.MaxOutboundFrame, frame.MaxOutboundHardLimit)
	}
	if c.Transport.ChunkBudget >= c.Limits().MaxOutbound {
		return fmt.Errorf("chunk_budget %d must be smaller than the outbound frame limit %d",
			c.Transport.ChunkBudget, c.Limits().MaxOutbound)
	}
	return nil
}

// Limits returns the frame limits.
func (c *HostConfig) Limits() frame.Limits {
	return frame.Limits{
		MaxInbound:  c.Transport.MaxInboundFrame,
		MaxOutbound: c.Transport.MaxOutboundFrame,
	}.Normalize()
}
