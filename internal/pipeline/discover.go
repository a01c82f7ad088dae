package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ALi-ather/Video-Text-Translator/internal/audio"
	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
	"github.com/ALi-ather/Video-Text-Translator/internal/subtitle"
)

// OutputNamer maps a source file name to the names of the files derived
// from it.
type OutputNamer func(name string) []string

// TranscriptionOutputs names the extracted audio and the subtitle file.
func TranscriptionOutputs(name string) []string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return []string{base + ".wav", base + subtitle.Extension}
}

// TranslationOutputs keeps the source name.
func TranslationOutputs(name string) []string {
	return []string{name}
}

// Discover lists sourceDir in directory order and returns one work item
// per regular file whose extension matches ext, ignoring case. outputDir is
// created when missing. An empty result comes with ErrNoWorkItems.
func Discover(sourceDir, ext, outputDir string, outputs OutputNamer) ([]batch.WorkItem, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", sourceDir, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ext = audio.NormalizeExt(ext)
	var items []batch.WorkItem
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}

		item := batch.WorkItem{Source: filepath.Join(sourceDir, name)}
		for _, out := range outputs(name) {
			item.Outputs = append(item.Outputs, filepath.Join(outputDir, out))
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrNoWorkItems
	}
	return items, nil
}
