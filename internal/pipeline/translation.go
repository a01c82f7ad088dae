package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
	"github.com/ALi-ather/Video-Text-Translator/internal/logging"
	"github.com/ALi-ather/Video-Text-Translator/internal/subtitle"
	"github.com/ALi-ather/Video-Text-Translator/internal/translate"
)

const bom = "\ufeff"

// TranslationJob translates the text lines of one SRT file and writes the
// result under OutputDir with the same name. Every other line is copied
// byte for byte.
type TranslationJob struct {
	Translator translate.Translator
	SourceLang string
	TargetLang string
	OutputDir  string

	// Overlay keeps the original text below each translated line.
	Overlay bool

	Logger *logging.Logger

	translated atomic.Int64
	failed     atomic.Int64
}

// Stats returns how many lines were translated and how many failed across
// every item this job has processed.
func (j *TranslationJob) Stats() (translated, failed int) {
	return int(j.translated.Load()), int(j.failed.Load())
}

// Transform implements batch.Transform.
func (j *TranslationJob) Transform(ctx context.Context, item batch.WorkItem, log batch.LogFunc) batch.Result {
	name := item.Name()
	dest := j.dest(item)

	lines, err := subtitle.ReadFile(item.Source)
	if err != nil {
		return batch.Failure(stageError(KindIO, name, "failed to read subtitle file", err))
	}

	out := make([]subtitle.Line, 0, len(lines))
	var translated, failed int
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return batch.Failure(stageError(KindTranslation, name, "translation interrupted", err))
		}
		if line.Kind != subtitle.LineText {
			out = append(out, line)
			continue
		}

		text := line.Content()
		result, err := j.Translator.Translate(ctx, text, j.SourceLang, j.TargetLang)
		if err == nil {
			result, err = singleLine(result)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return batch.Failure(stageError(KindTranslation, name, "translation interrupted", ctxErr))
			}
			failed++
			if log != nil {
				log(fmt.Sprintf("Error translating %s line %d %q: %v", name, i+1, text, err))
			}
			out = append(out, line)
			continue
		}
		translated++

		raw := result
		if strings.HasPrefix(line.Raw, bom) {
			raw = bom + raw
		}
		if j.Overlay {
			ending := line.Ending
			if ending == "" {
				ending = "\n"
			}
			out = append(out, subtitle.Line{Raw: raw, Ending: ending, Kind: subtitle.LineText})
			out = append(out, subtitle.Line{Raw: text, Ending: line.Ending, Kind: subtitle.LineText})
			continue
		}
		out = append(out, subtitle.Line{Raw: raw, Ending: line.Ending, Kind: subtitle.LineText})
	}

	j.translated.Add(int64(translated))
	j.failed.Add(int64(failed))
	j.logger().Debugw("file translated",
		"item", name,
		"translated", translated,
		"failed", failed,
	)

	if err := subtitle.WriteFile(dest, subtitle.EncodeLines(out)); err != nil {
		return batch.Failure(stageError(KindIO, name, "failed to write subtitle file", err))
	}
	return batch.Success(dest)
}

// singleLine folds a translation onto one line so it cannot end the cue or
// open a new one.
func singleLine(result string) (string, error) {
	fields := strings.Fields(result)
	if len(fields) == 0 {
		return "", errEmptyTranslation
	}
	return strings.Join(fields, " "), nil
}

func (j *TranslationJob) dest(item batch.WorkItem) string {
	if len(item.Outputs) == 1 {
		return item.Outputs[0]
	}
	return filepath.Join(j.OutputDir, item.Name())
}

func (j *TranslationJob) logger() *logging.Logger {
	if j.Logger == nil {
		return logging.Nop()
	}
	return j.Logger
}
