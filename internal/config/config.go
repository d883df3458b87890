package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/frontmatter"
)

// FileName is the configuration file every bank root must contain.
const FileName = "practicebank.yaml"

// AllTags is the special tagset selector matching every tag in the bank.
const AllTags = "__ALL__"

// Config represents a bank's configuration
type Config struct {
	Title       string         `yaml:"title,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Template    string         `yaml:"template,omitempty"` // page template path, relative to the bank root
	Strict      bool           `yaml:"strict,omitempty"`   // non-numeric problem directories become fatal
	Metadata    MetadataConfig `yaml:"metadata,omitempty"`
	Tagsets     []Tagset       `yaml:"tagsets,omitempty"`
}

// MetadataConfig controls frontmatter handling
type MetadataConfig struct {
	Unknown frontmatter.Policy `yaml:"unknown,omitempty"` // ignore | preserve | reject
}

// Tagset is a named group of tags presented as a section of the site index
type Tagset struct {
	Title       string      `yaml:"title"`
	Identifier  string      `yaml:"identifier"`
	Description string      `yaml:"description,omitempty"`
	Tags        TagSelector `yaml:"tags"`
}

// TagSelector is either an explicit tag list or the special __ALL__ marker.
type TagSelector struct {
	All  bool
	Tags []string
}

// UnmarshalYAML accepts a sequence of strings or the scalar __ALL__.
func (s *TagSelector) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		if name != AllTags {
			return fmt.Errorf("special tagset %q does not exist", name)
		}
		s.All = true
		return nil
	case yaml.SequenceNode:
		return value.Decode(&s.Tags)
	default:
		return fmt.Errorf("tags must be a sequence of strings or %q", AllTags)
	}
}

// MarshalYAML mirrors UnmarshalYAML for round-tripping starter configs.
func (s TagSelector) MarshalYAML() (any, error) {
	if s.All {
		return AllTags, nil
	}
	return s.Tags, nil
}

// Load reads and validates the bank configuration at the given bank root.
func Load(bankRoot string) (*Config, error) {
	configPath := filepath.Join(bankRoot, FileName)

	// Load .env if present so ${VAR} references in the config resolve.
	_ = godotenv.Load(filepath.Join(bankRoot, ".env"))

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.ConfigInvalid(configPath, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.ConfigInvalid(configPath, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, errors.ConfigInvalid(configPath, err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Title == "" {
		cfg.Title = "Practice Problems"
	}
	if cfg.Metadata.Unknown == "" {
		cfg.Metadata.Unknown = frontmatter.PolicyPreserve
	}
}

func validate(cfg *Config) error {
	switch cfg.Metadata.Unknown {
	case frontmatter.PolicyIgnore, frontmatter.PolicyPreserve, frontmatter.PolicyReject:
	default:
		return fmt.Errorf("metadata.unknown must be ignore, preserve, or reject, got %q", cfg.Metadata.Unknown)
	}

	seen := map[string]struct{}{}
	for i, ts := range cfg.Tagsets {
		if ts.Identifier == "" {
			return fmt.Errorf("tagsets[%d]: identifier is required", i)
		}
		if ts.Title == "" {
			return fmt.Errorf("tagset %q: title is required", ts.Identifier)
		}
		if _, dup := seen[ts.Identifier]; dup {
			return fmt.Errorf("tagset identifier %q used more than once", ts.Identifier)
		}
		seen[ts.Identifier] = struct{}{}
	}
	return nil
}
