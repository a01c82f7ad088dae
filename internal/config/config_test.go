package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/ALi-ather/Video-Text-Translator/internal/config"
	"github.com/ALi-ather/Video-Text-Translator/internal/transcribe"
	"github.com/ALi-ather/Video-Text-Translator/internal/translate"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SUBBATCH_INPUT_DIR", "SUBBATCH_OUTPUT_DIR", "SUBBATCH_TRANSCRIBE_PROVIDER",
		"SUBBATCH_TRANSCRIBE_EXT", "SUBBATCH_MODEL", "SUBBATCH_LANGUAGE",
		"SUBBATCH_WHISPER_BINARY", "SUBBATCH_CLEANUP_AUDIO", "SUBBATCH_TRANSLATE_PROVIDER",
		"SUBBATCH_TRANSLATE_EXT", "SUBBATCH_TRANSLATE_MODEL", "SUBBATCH_SOURCE_LANGUAGE",
		"SUBBATCH_TARGET_LANGUAGE", "SUBBATCH_WORKERS", "SUBBATCH_FAIL_ON_ERROR",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "DEEPL_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "subbatch", "config.toml")
	if resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}

	if cfg.Transcription.Model != "base" {
		t.Errorf("model = %q, want base", cfg.Transcription.Model)
	}
	if cfg.Translation.SourceLanguage != "en" || cfg.Translation.TargetLanguage != "ar" {
		t.Errorf("languages = %q -> %q, want en -> ar",
			cfg.Translation.SourceLanguage, cfg.Translation.TargetLanguage)
	}
	if cfg.Transcription.Extension != ".ts" || cfg.Translation.Extension != ".srt" {
		t.Errorf("extensions = %q, %q", cfg.Transcription.Extension, cfg.Translation.Extension)
	}
	if cfg.Transcription.Provider != "whisper" || cfg.Translation.Provider != "google" {
		t.Errorf("providers = %q, %q", cfg.Transcription.Provider, cfg.Translation.Provider)
	}
	if cfg.Run.Workers != 1 {
		t.Errorf("workers = %d, want 1", cfg.Run.Workers)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "subbatch.toml")

	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(dir, "videos")
	cfg.Translation.TargetLanguage = "FR"
	cfg.Translation.Provider = "DeepL"
	cfg.Run.Workers = 3

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if loaded.Paths.InputDir != filepath.Join(dir, "videos") {
		t.Errorf("input dir = %q", loaded.Paths.InputDir)
	}
	if loaded.Translation.TargetLanguage != "fr" {
		t.Errorf("target language = %q, want canonical fr", loaded.Translation.TargetLanguage)
	}
	if loaded.Translation.Provider != "deepl" {
		t.Errorf("provider = %q, want deepl", loaded.Translation.Provider)
	}
	if loaded.Run.Workers != 3 {
		t.Errorf("workers = %d, want 3", loaded.Run.Workers)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "subbatch.yaml")
	content := `
transcription:
  model: small
  extension: MP4
translation:
  target_language: de
  overlay: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if cfg.Transcription.Model != "small" {
		t.Errorf("model = %q, want small", cfg.Transcription.Model)
	}
	if cfg.Transcription.Extension != ".mp4" {
		t.Errorf("extension = %q, want .mp4", cfg.Transcription.Extension)
	}
	if cfg.Translation.TargetLanguage != "de" || !cfg.Translation.Overlay {
		t.Errorf("translation = %+v", cfg.Translation)
	}
	// untouched sections keep defaults
	if cfg.Translation.SourceLanguage != "en" {
		t.Errorf("source language = %q, want en", cfg.Translation.SourceLanguage)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[transcription]\nmodel = \"tiny\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("SUBBATCH_MODEL", "medium")
	t.Setenv("SUBBATCH_WORKERS", "4")
	t.Setenv("SUBBATCH_TARGET_LANGUAGE", "pt_br")
	t.Setenv("OPENAI_API_KEY", " sk-env ")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.Model != "medium" {
		t.Errorf("model = %q, want medium", cfg.Transcription.Model)
	}
	if cfg.Run.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Run.Workers)
	}
	if cfg.Translation.TargetLanguage != "pt-BR" {
		t.Errorf("target language = %q, want pt-BR", cfg.Translation.TargetLanguage)
	}
	if got := cfg.APIKey("openai"); got != "sk-env" {
		t.Errorf("APIKey(openai) = %q, want sk-env", got)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad transcription provider", func(c *config.Config) { c.Transcription.Provider = "vosk" }, "transcription.provider"},
		{"bad translation provider", func(c *config.Config) { c.Translation.Provider = "babelfish" }, "translation.provider"},
		{"zero workers", func(c *config.Config) { c.Run.Workers = 0 }, "run.workers"},
		{"same languages", func(c *config.Config) { c.Translation.TargetLanguage = "EN" }, "cannot be the same"},
		{"invalid language", func(c *config.Config) { c.Translation.TargetLanguage = "not a language" }, "target_language"},
		{"missing target", func(c *config.Config) { c.Translation.TargetLanguage = " " }, "target_language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateAcceptsEveryProvider(t *testing.T) {
	for _, p := range transcribe.Providers() {
		cfg := config.Default()
		cfg.Transcription.Provider = strings.ToUpper(string(p))
		if err := cfg.Finalize(); err != nil {
			t.Errorf("transcription provider %s: %v", p, err)
		}
	}
	for _, p := range translate.Providers() {
		cfg := config.Default()
		cfg.Translation.Provider = string(p)
		if err := cfg.Finalize(); err != nil {
			t.Errorf("translation provider %s: %v", p, err)
		}
	}
}

func TestAutoSourceLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.Translation.SourceLanguage = "AUTO"
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if cfg.Translation.SourceLanguage != "auto" {
		t.Errorf("source language = %q, want auto", cfg.Translation.SourceLanguage)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	var cfg config.Config
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Translation.TargetLanguage != "ar" {
		t.Errorf("sample target language = %q", cfg.Translation.TargetLanguage)
	}

	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when the file already exists")
	}
}

func TestAPIKeyEnv(t *testing.T) {
	if got := config.APIKeyEnv("Gemini"); got != "GEMINI_API_KEY" {
		t.Errorf("APIKeyEnv(Gemini) = %q", got)
	}
	if got := config.APIKeyEnv("google"); got != "" {
		t.Errorf("APIKeyEnv(google) = %q, want empty", got)
	}
}
