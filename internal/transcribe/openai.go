package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ALi-ather/Video-Text-Translator/internal/audio"
	"github.com/ALi-ather/Video-Text-Translator/internal/subtitle"
)

// OpenAIRecognizer uses the OpenAI audio API.
type OpenAIRecognizer struct {
	client  openai.Client
	model   string
	options Options
}

// segment from a whisper verbose_json document
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAIRecognizer(
	ctx context.Context,
	apiKey string,
	opts Options,
	reqOpts ...option.RequestOption,
) (*OpenAIRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, reqOpts...)...)

	model := opts.Model
	if model == "" || model == DefaultModel {
		model = "whisper-1"
	}

	return &OpenAIRecognizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// Recognize uploads a single audio file and returns its segments.
func (t *OpenAIRecognizer) Recognize(
	ctx context.Context,
	audioPath string,
) ([]subtitle.Segment, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var fallback float64
	if d, err := audio.GetDuration(ctx, audioPath); err == nil {
		fallback = d.Seconds()
	}

	var rawJSON, text string
	if t.shouldUseTranslation() {
		params := openai.AudioTranslationNewParams{
			File:           file,
			Model:          openai.AudioModel(t.model),
			ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
		}
		if t.options.Prompt != "" {
			params.Prompt = openai.String(t.options.Prompt)
		}

		resp, err := t.client.Audio.Translations.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("translation failed: %w", err)
		}
		rawJSON, text = resp.RawJSON(), resp.Text
	} else {
		params := openai.AudioTranscriptionNewParams{
			File:                   file,
			Model:                  openai.AudioModel(t.model),
			ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
			TimestampGranularities: []string{"segment"},
		}
		if t.options.Language != "" {
			params.Language = openai.String(t.options.Language)
		}
		if t.options.Prompt != "" {
			params.Prompt = openai.String(t.options.Prompt)
		}

		resp, err := t.client.Audio.Transcriptions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("transcription failed: %w", err)
		}
		rawJSON, text = resp.RawJSON(), resp.Text
	}

	segments, err := t.parseVerboseJSONResponse(rawJSON, fallback)
	if err != nil {
		// plain text response without timing
		segments = []subtitle.Segment{{
			Start: 0,
			End:   fallback,
			Text:  strings.TrimSpace(text),
		}}
	}
	return segments, nil
}

func (t *OpenAIRecognizer) shouldUseTranslation() bool {
	lang := strings.ToLower(strings.TrimSpace(t.options.TranscriptLanguage))
	return lang == "english" || lang == "en"
}

func (t *OpenAIRecognizer) parseVerboseJSONResponse(
	rawJSON string,
	fallbackDuration float64,
) ([]subtitle.Segment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Segments) == 0 {
		if verboseResp.Text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		end := fallbackDuration
		if verboseResp.Duration > 0 {
			end = verboseResp.Duration
		}
		return []subtitle.Segment{{
			Start: 0,
			End:   end,
			Text:  strings.TrimSpace(verboseResp.Text),
		}}, nil
	}

	segments := make([]subtitle.Segment, 0, len(verboseResp.Segments))
	for _, seg := range verboseResp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	return segments, nil
}
