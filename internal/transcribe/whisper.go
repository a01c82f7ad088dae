package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ALi-ather/Video-Text-Translator/internal/command"
	"github.com/ALi-ather/Video-Text-Translator/internal/subtitle"
)

// WhisperCLIRecognizer runs the local openai-whisper command line tool.
// The model is loaded by whisper on every call.
type WhisperCLIRecognizer struct {
	Binary   string
	Model    string
	Language string
	Runner   command.Runner
}

// whisper --output_format json document
type whisperJSON struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

func NewWhisperCLIRecognizer(opts Options) *WhisperCLIRecognizer {
	binary := opts.WhisperBinary
	if binary == "" {
		binary = "whisper"
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &WhisperCLIRecognizer{
		Binary:   binary,
		Model:    model,
		Language: opts.Language,
		Runner:   command.Default,
	}
}

// Recognize transcribes audioPath into segments.
func (w *WhisperCLIRecognizer) Recognize(ctx context.Context, audioPath string) ([]subtitle.Segment, error) {
	if audioPath == "" {
		return nil, errors.New("audio path is required")
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	outDir, err := os.MkdirTemp("", "subbatch-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := w.buildArgs(audioPath, outDir)
	if _, err := w.Runner.Run(ctx, w.Binary, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", w.describeError(err, audioPath), err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %w", err)
	}

	return parseWhisperJSON(data)
}

func (w *WhisperCLIRecognizer) buildArgs(audioPath, outDir string) []string {
	args := []string{
		audioPath,
		"--model", w.Model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--temperature", "0",
	}
	if w.Language != "" && w.Language != "auto" {
		args = append(args, "--language", w.Language)
	}
	return args
}

func parseWhisperJSON(data []byte) ([]subtitle.Segment, error) {
	var doc whisperJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}

	segments := make([]subtitle.Segment, 0, len(doc.Segments))
	for _, seg := range doc.Segments {
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return segments, nil
}

// describeError maps common whisper failures to actionable messages.
func (w *WhisperCLIRecognizer) describeError(err error, audioPath string) string {
	msg := err.Error()
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		msg += " " + cmdErr.Result.Stderr
	}

	switch {
	case errors.Is(err, os.ErrNotExist) || strings.Contains(msg, "executable file not found"):
		return "whisper is not installed (pip install openai-whisper)"
	case strings.Contains(msg, "No module named"):
		return "whisper dependencies missing (pip install --upgrade openai-whisper)"
	case strings.Contains(msg, "not enough memory") || strings.Contains(msg, "OutOfMemoryError"):
		return fmt.Sprintf("insufficient memory for model %q, try a smaller model", w.Model)
	case strings.Contains(msg, "Invalid model") || strings.Contains(msg, "invalid choice"):
		return fmt.Sprintf("unsupported whisper model %q", w.Model)
	case strings.Contains(msg, "Could not load model"):
		return fmt.Sprintf("failed to load whisper model %q", w.Model)
	default:
		return fmt.Sprintf("whisper failed on %s", filepath.Base(audioPath))
	}
}
