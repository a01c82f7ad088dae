package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
	"github.com/ALi-ather/Video-Text-Translator/internal/pipeline"
	"github.com/ALi-ather/Video-Text-Translator/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate every SRT file in a folder to another language",
	Long: `Translate each subtitle file in the input folder and write the result,
under the same name, to the output folder.

Only the text lines of each cue are translated. Index lines, timing lines
and blank lines are copied unchanged, so a file without dialogue comes out
byte for byte identical. A line that cannot be translated keeps its
original text and is reported in the log.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  subbatch translate --input ./subs --output ./subs-ar
  subbatch translate -i ./subs -o ./subs-fr --target-language fr --overlay
  subbatch translate -i ./subs -o ./subs-ja -t ja --provider gemini`,
	Args: cobra.NoArgs,
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringP("input", "i", "", "Folder containing the subtitle files")
	translateCmd.Flags().StringP("output", "o", "", "Folder for the translated subtitles")
	translateCmd.Flags().String("ext", "", "Subtitle file extension to process (default .srt)")
	translateCmd.Flags().
		StringP("source-language", "s", "", "Language of the input subtitles, or auto (default en)")
	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (default ar)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (google, deepl, openai, gemini, anthropic)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set DEEPL_API_KEY/OPENAI_API_KEY/GEMINI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("model", "", "Model to use for LLM providers (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("prompt", "", "Extra instructions for LLM providers")
	translateCmd.Flags().Int("workers", 0, "Number of files processed at once")
	translateCmd.Flags().Bool("no-cache", false, "Translate repeated lines again instead of reusing results")
	translateCmd.Flags().Bool("fail-on-error", false, "Exit with an error when any file fails")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	overrideString(flags, "input", &cfg.Paths.InputDir)
	overrideString(flags, "output", &cfg.Paths.OutputDir)
	overrideString(flags, "ext", &cfg.Translation.Extension)
	overrideString(flags, "source-language", &cfg.Translation.SourceLanguage)
	overrideString(flags, "target-language", &cfg.Translation.TargetLanguage)
	overrideString(flags, "provider", &cfg.Translation.Provider)
	overrideString(flags, "model", &cfg.Translation.Model)
	overrideString(flags, "prompt", &cfg.Translation.Prompt)
	overrideBool(flags, "overlay", &cfg.Translation.Overlay)
	overrideInt(flags, "workers", &cfg.Run.Workers)
	overrideBool(flags, "fail-on-error", &cfg.Run.FailOnError)
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.Translation.Cache = false
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	if err := requireDirs(cfg.Paths.InputDir, cfg.Paths.OutputDir); err != nil {
		return err
	}

	provider := translate.Provider(cfg.Translation.Provider)
	apiKey, err := resolveAPIKey(flags, string(provider), provider.RequiresAPIKey())
	if err != nil {
		return err
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		Model:  cfg.Translation.Model,
		Prompt: cfg.Translation.Prompt,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}
	if cfg.Translation.Cache {
		translator = translate.NewCached(translator)
	}

	job := &pipeline.TranslationJob{
		Translator: translator,
		SourceLang: cfg.Translation.SourceLanguage,
		TargetLang: cfg.Translation.TargetLanguage,
		OutputDir:  cfg.Paths.OutputDir,
		Overlay:    cfg.Translation.Overlay,
		Logger:     logger,
	}

	logger.Infow("Starting batch translation",
		"input", cfg.Paths.InputDir,
		"output", cfg.Paths.OutputDir,
		"source_language", cfg.Translation.SourceLanguage,
		"target_language", cfg.Translation.TargetLanguage,
		"provider", provider,
		"overlay", cfg.Translation.Overlay,
		"workers", cfg.Run.Workers,
	)

	report, err := runBatch(ctx, batchJob{
		OutputDir:    cfg.Paths.OutputDir,
		Workers:      cfg.Run.Workers,
		FailOnError:  cfg.Run.FailOnError,
		EmptyMessage: fmt.Sprintf("No %s files found in %s.", cfg.Translation.Extension, cfg.Paths.InputDir),
		DoneMessage:  "All files translated.",
		Discover: func() ([]batch.WorkItem, error) {
			return pipeline.Discover(
				cfg.Paths.InputDir,
				cfg.Translation.Extension,
				cfg.Paths.OutputDir,
				pipeline.TranslationOutputs,
			)
		},
		Transform: job.Transform,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if report != nil && report.Total > 0 {
		translated, failed := job.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "  Lines translated: %d\n", translated)
		if failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  Lines kept in original language: %d\n", failed)
		}
		if cached, ok := translator.(*translate.Cached); ok && cached.Hits() > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  Repeated lines reused: %d\n", cached.Hits())
		}
	}
	return err
}
