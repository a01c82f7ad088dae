package config

const (
	defaultModel                 = "base"
	defaultSourceLanguage        = "en"
	defaultTargetLanguage        = "ar"
	defaultTranscriptionExt      = ".ts"
	defaultTranslationExt        = ".srt"
	defaultTranscriptionProvider = "whisper"
	defaultTranslationProvider   = "google"
	defaultWorkers               = 1
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Transcription: Transcription{
			Extension: defaultTranscriptionExt,
			Provider:  defaultTranscriptionProvider,
			Model:     defaultModel,
			Language:  defaultSourceLanguage,
		},
		Translation: Translation{
			Extension:      defaultTranslationExt,
			Provider:       defaultTranslationProvider,
			SourceLanguage: defaultSourceLanguage,
			TargetLanguage: defaultTargetLanguage,
			Cache:          true,
		},
		Run: Run{
			Workers: defaultWorkers,
		},
	}
}
