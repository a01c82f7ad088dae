package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
	"github.com/ALi-ather/Video-Text-Translator/internal/logging"
	"github.com/ALi-ather/Video-Text-Translator/internal/subtitle"
	"github.com/ALi-ather/Video-Text-Translator/internal/transcribe"
	"github.com/ALi-ather/Video-Text-Translator/internal/video"
)

// TranscriptionJob turns one video into an SRT file: extract audio,
// recognize speech, encode cues.
type TranscriptionJob struct {
	Extractor  video.AudioExtractor
	Recognizer transcribe.Recognizer
	OutputDir  string

	// CleanupAudio removes the extracted WAV once the item is done,
	// whether it succeeded or not.
	CleanupAudio bool

	Logger *logging.Logger
}

// Transform implements batch.Transform.
func (j *TranscriptionJob) Transform(ctx context.Context, item batch.WorkItem, _ batch.LogFunc) batch.Result {
	logger := j.logger().With("item", item.Name())
	name := item.Name()
	wavPath, srtPath := j.paths(item)

	if j.CleanupAudio {
		defer func() {
			if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
				logger.Warnw("failed to remove extracted audio", "path", wavPath, "error", err)
			}
		}()
	}

	logger.Debugw("extracting audio", "dest", wavPath)
	if err := j.Extractor.ExtractAudio(ctx, item.Source, wavPath); err != nil {
		return batch.Failure(stageError(KindExtraction, name, "audio extraction failed", err))
	}

	logger.Debugw("recognizing speech", "audio", wavPath)
	segments, err := j.Recognizer.Recognize(ctx, wavPath)
	if err != nil {
		return batch.Failure(stageError(KindRecognition, name, "speech recognition failed", err))
	}

	content := subtitle.Encode(subtitle.CuesFromSegments(segments))
	if err := subtitle.WriteFile(srtPath, content); err != nil {
		return batch.Failure(stageError(KindIO, name, "failed to write subtitle file", err))
	}

	logger.Debugw("subtitle written", "path", srtPath, "cues", len(segments))
	return batch.Success(srtPath)
}

func (j *TranscriptionJob) paths(item batch.WorkItem) (wav, srt string) {
	if len(item.Outputs) == 2 {
		return item.Outputs[0], item.Outputs[1]
	}
	names := TranscriptionOutputs(item.Name())
	return filepath.Join(j.OutputDir, names[0]), filepath.Join(j.OutputDir, names[1])
}

func (j *TranscriptionJob) logger() *logging.Logger {
	if j.Logger == nil {
		return logging.Nop()
	}
	return j.Logger
}
