package subtitle

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Encode renders cues as SubRip text. Indices are taken from position, not
// from the incoming Cue.Index.
func Encode(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End)))

		// text
		sb.WriteString(strings.TrimSpace(cue.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// FormatTimestamp formats seconds as HH:MM:SS,mmm with truncated
// milliseconds. A tolerance far below one microsecond absorbs binary float
// error (1.999 stays ,999) without carrying 0.9999996 up to the next second.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}

	totalMillis := int64(math.Floor(seconds*1000 + 1e-7))

	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	secs := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
