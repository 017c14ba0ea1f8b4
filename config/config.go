package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileNames are tried in order inside the config directory.
var FileNames = []string{"tmuxession.yml", "tmuxession.yaml", "tmuxession.toml"}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TMUXESSION"

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

var (
	overrideMu   sync.RWMutex
	overridePath string
)

// SetPath makes LoadDefault read path instead of searching the config
// directory. An empty path restores the search.
func SetPath(path string) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	overridePath = path
}

// envOverlay lists the environment variables that override file values.
type envOverlay struct {
	Shell      string
	Editor     string
	Theme      string
	TmuxBinary string `split_words:"true"`
	TmuxSocket string `split_words:"true"`
}

// LoadDefault loads the file set with SetPath, else the first of FileNames
// found in the config directory. A missing default file yields defaults.
func LoadDefault() (*Config, error) {
	overrideMu.RLock()
	path := overridePath
	overrideMu.RUnlock()

	if path != "" {
		return Load(path)
	}

	if found := FindConfigFile(paths.ConfigDir()); found != "" {
		return Load(found)
	}

	cfg := &Config{}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile returns the first configuration file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load reads, validates and completes the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, formatOf(path))
	if err != nil {
		if sessErr, ok := errors.As(err); ok {
			return nil, sessErr.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.source = path
	return cfg, nil
}

// LoadFromBytes parses data in the given format ("yaml" or "toml").
func LoadFromBytes(data []byte, format string) (*Config, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build config schema")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "configuration does not match schema")
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  cfg,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode config")
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies the environment overlay, defaults and validation.
func finish(cfg *Config) error {
	if err := applyEnv(cfg); err != nil {
		return err
	}
	cfg.SetDefaults()
	return cfg.Validate()
}

func applyEnv(cfg *Config) error {
	var env envOverlay
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid environment override")
	}
	if env.Shell != "" {
		cfg.Shell = env.Shell
	}
	if env.Editor != "" {
		cfg.Editor = env.Editor
	}
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.TmuxBinary != "" {
		cfg.Tmux.Binary = env.TmuxBinary
	}
	if env.TmuxSocket != "" {
		cfg.Tmux.Socket = env.TmuxSocket
	}
	return nil
}

func decodeRaw(data []byte, format string) (map[string]interface{}, error) {
	expanded := []byte(expandEnvVars(string(data)))
	raw := map[string]interface{}{}

	switch format {
	case "toml":
		if err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
	default:
		if err := yaml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML config")
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// expandEnvVars replaces ${VAR} references with environment values.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

func defaultEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return DefaultEditor
}

// Marshal renders cfg in the given format ("yaml" or "toml").
func (c *Config) Marshal(format string) ([]byte, error) {
	if format == "toml" {
		out := map[string]interface{}{}
		for k, v := range c.Extensions {
			out[k] = v
		}
		out["shell"] = c.Shell
		out["editor"] = c.Editor
		if c.Theme != "" {
			out["theme"] = c.Theme
		}
		out["tmux"] = c.Tmux
		out["capture"] = c.Capture
		return toml.Marshal(out)
	}
	return yaml.Marshal(c)
}
