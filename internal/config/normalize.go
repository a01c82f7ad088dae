package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}

	c.Transcription.Extension = normalizeExt(c.Transcription.Extension, defaultTranscriptionExt)
	c.Translation.Extension = normalizeExt(c.Translation.Extension, defaultTranslationExt)

	c.Transcription.Provider = lowerOr(c.Transcription.Provider, defaultTranscriptionProvider)
	c.Translation.Provider = lowerOr(c.Translation.Provider, defaultTranslationProvider)
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)

	if c.Transcription.Language, err = canonicalLanguage(c.Transcription.Language, true); err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	if c.Translation.SourceLanguage, err = canonicalLanguage(c.Translation.SourceLanguage, true); err != nil {
		return fmt.Errorf("translation.source_language: %w", err)
	}
	if c.Translation.TargetLanguage, err = canonicalLanguage(c.Translation.TargetLanguage, false); err != nil {
		return fmt.Errorf("translation.target_language: %w", err)
	}

	c.APIKeys.OpenAI = strings.TrimSpace(c.APIKeys.OpenAI)
	c.APIKeys.Gemini = strings.TrimSpace(c.APIKeys.Gemini)
	c.APIKeys.Anthropic = strings.TrimSpace(c.APIKeys.Anthropic)
	c.APIKeys.DeepL = strings.TrimSpace(c.APIKeys.DeepL)
	return nil
}

func normalizeExt(ext, fallback string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func lowerOr(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

// canonicalLanguage parses a BCP 47 tag and returns its canonical form
// ("EN" becomes "en", "pt_br" becomes "pt-BR"). Empty and "auto" pass
// through when allowAuto is set.
func canonicalLanguage(code string, allowAuto bool) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "auto") {
		if allowAuto {
			return strings.ToLower(code), nil
		}
		return "", fmt.Errorf("a language code is required")
	}

	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("invalid language code %q", code)
	}
	return tag.String(), nil
}
