package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
	"golang.org/x/text/encoding"

	"github.com/cssparse/css3/charset"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ParseConfig struct {
		SkipComments        bool   `yaml:"skip_comments"`
		SkipWhitespace      bool   `yaml:"skip_whitespace"`
		ProtocolEncoding    string `yaml:"protocol_encoding"`
		EnvironmentEncoding string `yaml:"environment_encoding"`
	}

	OutputConfig struct {
		Format string `yaml:"format" validate:"required,oneof=yaml json"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Parse   ParseConfig   `yaml:"parse"`
		Output  OutputConfig  `yaml:"output"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Environment resolves the environment encoding label. It returns nil when
// no label is configured.
func (c *ParseConfig) Environment() encoding.Encoding {
	return charset.Lookup(c.EnvironmentEncoding)
}

// checkEncodings reports labels no encoding is known for.
func (c *ParseConfig) checkEncodings() error {
	for _, label := range []string{c.ProtocolEncoding, c.EnvironmentEncoding} {
		if label != "" && charset.Lookup(label) == nil {
			return fmt.Errorf("unknown encoding label '%s'", label)
		}
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		if err := cfg.Parse.checkEncodings(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
