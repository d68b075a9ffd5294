package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mgpai22/dscsub/internal/pvdb"
	"github.com/mgpai22/dscsub/internal/subtitle"
	"gopkg.in/yaml.v3"
)

// looked up in the working directory when no path is given
const DefaultFile = "dscsub.yaml"

// settings shared by the convert commands; flags override them
type Config struct {
	// inputs
	Database string `yaml:"database"`
	Encoding string `yaml:"encoding"`

	// outputs
	Destination string  `yaml:"destination"`
	Format      string  `yaml:"format"`
	Inline      bool    `yaml:"inline"`
	Offset      float64 `yaml:"offset"`
	LastCue     float64 `yaml:"last_cue_seconds"`
	SongNameTag string  `yaml:"song_name_tag"`

	// batch
	Concurrency int `yaml:"concurrency"`

	configFilePath string
}

func Default() *Config {
	return &Config{
		Encoding:    pvdb.EncodingUTF8,
		Destination: ".",
		Format:      string(subtitle.FormatVTT),
		LastCue:     5,
		SongNameTag: "_en",
		Concurrency: 4,
	}
}

// reads path over the defaults; an empty path falls back to DefaultFile if present
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty file decodes as io.EOF
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.configFilePath = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := subtitle.ParseFormat(c.Format); err != nil {
		return err
	}
	switch strings.ToLower(c.Encoding) {
	case pvdb.EncodingUTF8, "utf8", pvdb.EncodingShiftJIS, "sjis", "shift_jis":
	default:
		return fmt.Errorf("unsupported encoding %q: use utf-8 or shift-jis", c.Encoding)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.LastCue <= 0 {
		return fmt.Errorf("last_cue_seconds must be positive, got %v", c.LastCue)
	}
	return nil
}

// file the config was read from, empty when only defaults apply
func (c *Config) Path() string {
	return c.configFilePath
}
