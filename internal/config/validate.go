package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ALi-ather/Video-Text-Translator/internal/transcribe"
	"github.com/ALi-ather/Video-Text-Translator/internal/translate"
)

// Validate ensures the configuration is usable. Directories are checked by
// the commands that need them.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("run.workers must be at least 1, got %d", c.Run.Workers)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	providers := transcribe.Providers()
	if !slices.Contains(providers, transcribe.Provider(c.Transcription.Provider)) {
		return fmt.Errorf("transcription.provider %q is not supported: use one of %v",
			c.Transcription.Provider, providers)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	providers := translate.Providers()
	if !slices.Contains(providers, translate.Provider(c.Translation.Provider)) {
		return fmt.Errorf("translation.provider %q is not supported: use one of %v",
			c.Translation.Provider, providers)
	}
	if c.Translation.SourceLanguage != "" && c.Translation.SourceLanguage == c.Translation.TargetLanguage {
		return errors.New("translation.source_language and translation.target_language cannot be the same")
	}
	return nil
}
