package config

import (
	"strconv"
	"strings"
)

type lookupFunc func(key string) (string, bool)

// applyEnv overrides file values with SUBBATCH_* variables and the
// provider key variables. Empty values are ignored.
func (c *Config) applyEnv(lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}

	str("SUBBATCH_INPUT_DIR", &c.Paths.InputDir)
	str("SUBBATCH_OUTPUT_DIR", &c.Paths.OutputDir)

	str("SUBBATCH_TRANSCRIBE_PROVIDER", &c.Transcription.Provider)
	str("SUBBATCH_TRANSCRIBE_EXT", &c.Transcription.Extension)
	str("SUBBATCH_MODEL", &c.Transcription.Model)
	str("SUBBATCH_LANGUAGE", &c.Transcription.Language)
	str("SUBBATCH_WHISPER_BINARY", &c.Transcription.WhisperBinary)
	boolean("SUBBATCH_CLEANUP_AUDIO", &c.Transcription.CleanupAudio)

	str("SUBBATCH_TRANSLATE_PROVIDER", &c.Translation.Provider)
	str("SUBBATCH_TRANSLATE_EXT", &c.Translation.Extension)
	str("SUBBATCH_TRANSLATE_MODEL", &c.Translation.Model)
	str("SUBBATCH_SOURCE_LANGUAGE", &c.Translation.SourceLanguage)
	str("SUBBATCH_TARGET_LANGUAGE", &c.Translation.TargetLanguage)

	if v, ok := lookup("SUBBATCH_WORKERS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Run.Workers = n
		}
	}
	boolean("SUBBATCH_FAIL_ON_ERROR", &c.Run.FailOnError)

	str("OPENAI_API_KEY", &c.APIKeys.OpenAI)
	str("GEMINI_API_KEY", &c.APIKeys.Gemini)
	str("ANTHROPIC_API_KEY", &c.APIKeys.Anthropic)
	str("DEEPL_API_KEY", &c.APIKeys.DeepL)
}
