package transcribe

import (
	"context"
	"fmt"

	"github.com/ALi-ather/Video-Text-Translator/internal/subtitle"
)

// Recognizer turns an audio file into chronologically ordered segments.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string) ([]subtitle.Segment, error)
}

// transcription service provider
type Provider string

const (
	ProviderWhisper Provider = "whisper"
	ProviderOpenAI  Provider = "openai"
	ProviderGemini  Provider = "gemini"
)

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderWhisper, ProviderOpenAI, ProviderGemini}
}

// DefaultModel is the local whisper model used when none is configured.
const DefaultModel = "base"

// transcription options
type Options struct {
	Language           string // Source language of audio, empty for auto-detect
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
	WhisperBinary      string // whisper executable for the local provider
}

// creates a recognizer based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Recognizer, error) {
	switch provider {
	case ProviderWhisper, "":
		return NewWhisperCLIRecognizer(opts), nil
	case ProviderOpenAI:
		return NewOpenAIRecognizer(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiRecognizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
