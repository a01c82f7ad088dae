package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
	"github.com/ALi-ather/Video-Text-Translator/internal/config"
	"github.com/ALi-ather/Video-Text-Translator/internal/pipeline"
	"github.com/ALi-ather/Video-Text-Translator/internal/transcribe"
	"github.com/ALi-ather/Video-Text-Translator/internal/video"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Generate SRT subtitles for every video in a folder",
	Long: `Generate subtitles for each video in the input folder.

For every matching file the audio track is extracted to a mono 16 kHz WAV,
speech is recognized, and an SRT file with the same base name is written to
the output folder. A file that fails is logged and skipped.

Examples:
  subbatch transcribe --input ./lectures --output ./subs
  subbatch transcribe -i ./clips -o ./subs --ext .mp4 --model small
  subbatch transcribe -i ./clips -o ./subs --provider openai --workers 3`,
	Args: cobra.NoArgs,
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().StringP("input", "i", "", "Folder containing the videos")
	transcribeCmd.Flags().StringP("output", "o", "", "Folder for the generated subtitles")
	transcribeCmd.Flags().String("ext", "", "Video file extension to process (default .ts)")
	transcribeCmd.Flags().
		String("model", "", "Recognition model (whisper: tiny, base, small, medium, large)")
	transcribeCmd.Flags().
		String("provider", "", "Recognition provider (whisper, openai, gemini)")
	transcribeCmd.Flags().
		StringP("language", "l", "", "Spoken language code, or auto to detect")
	transcribeCmd.Flags().
		String("transcript-language", "native", "Output language for the transcript (native, or english for the openai provider)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	transcribeCmd.Flags().Int("workers", 0, "Number of files processed at once")
	transcribeCmd.Flags().Bool("cleanup-audio", false, "Delete extracted WAV files after each video")
	transcribeCmd.Flags().Bool("fail-on-error", false, "Exit with an error when any file fails")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	overrideString(flags, "input", &cfg.Paths.InputDir)
	overrideString(flags, "output", &cfg.Paths.OutputDir)
	overrideString(flags, "ext", &cfg.Transcription.Extension)
	overrideString(flags, "model", &cfg.Transcription.Model)
	overrideString(flags, "provider", &cfg.Transcription.Provider)
	overrideString(flags, "language", &cfg.Transcription.Language)
	overrideInt(flags, "workers", &cfg.Run.Workers)
	overrideBool(flags, "cleanup-audio", &cfg.Transcription.CleanupAudio)
	overrideBool(flags, "fail-on-error", &cfg.Run.FailOnError)
	if err := cfg.Finalize(); err != nil {
		return err
	}

	if err := requireDirs(cfg.Paths.InputDir, cfg.Paths.OutputDir); err != nil {
		return err
	}

	provider := transcribe.Provider(cfg.Transcription.Provider)
	transcriptLang, _ := flags.GetString("transcript-language")
	if provider == transcribe.ProviderOpenAI && !isValidOpenAITranscriptLanguage(transcriptLang) {
		return fmt.Errorf(
			"unsupported transcript language %q for openai: only native or english is available",
			transcriptLang,
		)
	}

	apiKey, err := resolveAPIKey(flags, string(provider), provider != transcribe.ProviderWhisper)
	if err != nil {
		return err
	}

	recognizer, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language:           cfg.Transcription.Language,
		TranscriptLanguage: transcriptLang,
		Model:              cfg.Transcription.Model,
		WhisperBinary:      cfg.Transcription.WhisperBinary,
	})
	if err != nil {
		return fmt.Errorf("failed to create recognizer: %w", err)
	}

	job := &pipeline.TranscriptionJob{
		Extractor:    video.NewExtractor(),
		Recognizer:   recognizer,
		OutputDir:    cfg.Paths.OutputDir,
		CleanupAudio: cfg.Transcription.CleanupAudio,
		Logger:       logger,
	}

	logger.Infow("Starting batch transcription",
		"input", cfg.Paths.InputDir,
		"output", cfg.Paths.OutputDir,
		"ext", cfg.Transcription.Extension,
		"provider", provider,
		"model", cfg.Transcription.Model,
		"workers", cfg.Run.Workers,
	)

	_, err = runBatch(ctx, batchJob{
		OutputDir:    cfg.Paths.OutputDir,
		Workers:      cfg.Run.Workers,
		FailOnError:  cfg.Run.FailOnError,
		EmptyMessage: fmt.Sprintf("No %s files found in %s.", cfg.Transcription.Extension, cfg.Paths.InputDir),
		DoneMessage:  "All files processed.",
		Discover: func() ([]batch.WorkItem, error) {
			return pipeline.Discover(
				cfg.Paths.InputDir,
				cfg.Transcription.Extension,
				cfg.Paths.OutputDir,
				pipeline.TranscriptionOutputs,
			)
		},
		Transform: job.Transform,
		Before: func(sink batch.Sink) {
			if provider == transcribe.ProviderWhisper {
				sink.OnLog(fmt.Sprintf("Loading whisper model %s", cfg.Transcription.Model))
			}
		},
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

// isValidOpenAITranscriptLanguage reports whether the OpenAI audio API can
// produce the requested transcript language. It only translates to English.
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	default:
		return false
	}
}

// requireDirs checks that the input folder exists and that an output folder
// was given.
func requireDirs(input, output string) error {
	if input == "" {
		return fmt.Errorf("input folder is required: use --input or set paths.input_dir")
	}
	if output == "" {
		return fmt.Errorf("output folder is required: use --output or set paths.output_dir")
	}
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input folder %s: %w", input, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a folder", input)
	}
	return nil
}

// resolveAPIKey prefers the --api-key flag, then the configured key.
func resolveAPIKey(flags flagReader, provider string, required bool) (string, error) {
	apiKey, _ := flags.GetString("api-key")
	if apiKey == "" {
		apiKey = cfg.APIKey(provider)
	}
	if apiKey == "" && required {
		return "", fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			config.APIKeyEnv(provider),
		)
	}
	return apiKey, nil
}
