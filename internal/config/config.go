package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths holds the batch source and destination directories.
type Paths struct {
	InputDir  string `toml:"input_dir" yaml:"input_dir"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`
}

// Transcription configures the video to SRT mode.
type Transcription struct {
	Extension     string `toml:"extension" yaml:"extension"`
	Provider      string `toml:"provider" yaml:"provider"`
	Model         string `toml:"model" yaml:"model"`
	Language      string `toml:"language" yaml:"language"`
	WhisperBinary string `toml:"whisper_binary" yaml:"whisper_binary"`
	CleanupAudio  bool   `toml:"cleanup_audio" yaml:"cleanup_audio"`
}

// Translation configures the SRT translation mode.
type Translation struct {
	Extension      string `toml:"extension" yaml:"extension"`
	Provider       string `toml:"provider" yaml:"provider"`
	Model          string `toml:"model" yaml:"model"`
	SourceLanguage string `toml:"source_language" yaml:"source_language"`
	TargetLanguage string `toml:"target_language" yaml:"target_language"`
	Prompt         string `toml:"prompt" yaml:"prompt"`
	Overlay        bool   `toml:"overlay" yaml:"overlay"`
	Cache          bool   `toml:"cache" yaml:"cache"`
}

// Run holds settings shared by both batch modes.
type Run struct {
	Workers     int  `toml:"workers" yaml:"workers"`
	FailOnError bool `toml:"fail_on_error" yaml:"fail_on_error"`
}

// APIKeys holds provider credentials. They are usually supplied through
// the environment.
type APIKeys struct {
	OpenAI    string `toml:"openai" yaml:"openai"`
	Gemini    string `toml:"gemini" yaml:"gemini"`
	Anthropic string `toml:"anthropic" yaml:"anthropic"`
	DeepL     string `toml:"deepl" yaml:"deepl"`
}

// Config encapsulates all configuration values for subbatch.
type Config struct {
	Paths         Paths         `toml:"paths" yaml:"paths"`
	Transcription Transcription `toml:"transcription" yaml:"transcription"`
	Translation   Translation   `toml:"translation" yaml:"translation"`
	Run           Run           `toml:"run" yaml:"run"`
	APIKeys       APIKeys       `toml:"api_keys" yaml:"api_keys"`
}

const defaultConfigPath = "~/.config/subbatch/config.toml"

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config file at path, or the default location when path is
// empty, then applies environment overrides. A missing file is not an
// error. It returns the config, the resolved path and whether the file
// existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// Finalize normalizes and validates the config. Call it again after
// applying command-line overrides.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// APIKey returns the credential for a provider name, or "".
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.APIKeys.OpenAI
	case "gemini":
		return c.APIKeys.Gemini
	case "anthropic":
		return c.APIKeys.Anthropic
	case "deepl":
		return c.APIKeys.DeepL
	default:
		return ""
	}
}

// APIKeyEnv names the environment variable holding a provider's key.
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "deepl":
		return "DEEPL_API_KEY"
	default:
		return ""
	}
}

// CreateSample writes a commented sample config. It refuses to overwrite
// an existing file.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
