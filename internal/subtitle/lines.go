package subtitle

import (
	"fmt"
	"os"
	"strings"
)

// LineKind classifies one physical line of SubRip text.
type LineKind int

const (
	LineBlank LineKind = iota
	LineIndex
	LineTiming
	LineText
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineIndex:
		return "index"
	case LineTiming:
		return "timing"
	case LineText:
		return "text"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Line is one physical line with its original terminator, so a slice of
// lines re-encodes to the exact input bytes.
type Line struct {
	Raw    string
	Ending string
	Kind   LineKind
}

// Content returns the line with surrounding whitespace and any BOM removed.
func (l Line) Content() string {
	return strings.TrimSpace(strings.TrimPrefix(l.Raw, bom))
}

const bom = "\ufeff"

// Classify applies the line rules: whitespace-only is blank, all digits is
// an index, anything containing "-->" is timing, everything else is text.
func Classify(raw string) LineKind {
	line := strings.TrimSpace(strings.TrimPrefix(raw, bom))
	switch {
	case line == "":
		return LineBlank
	case isDigits(line):
		return LineIndex
	case strings.Contains(line, "-->"):
		return LineTiming
	default:
		return LineText
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// DecodeLines splits text into classified lines without altering any byte.
func DecodeLines(text string) []Line {
	var lines []Line
	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			lines = append(lines, Line{Raw: text, Kind: Classify(text)})
			break
		}

		raw, ending := text[:idx], "\n"
		if strings.HasSuffix(raw, "\r") {
			raw, ending = raw[:len(raw)-1], "\r\n"
		}
		lines = append(lines, Line{Raw: raw, Ending: ending, Kind: Classify(raw)})
		text = text[idx+1:]
	}
	return lines
}

// EncodeLines concatenates lines back into text.
func EncodeLines(lines []Line) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line.Raw)
		sb.WriteString(line.Ending)
	}
	return sb.String()
}

// ReadFile reads a subtitle file in line-preserving form.
func ReadFile(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return DecodeLines(string(data)), nil
}
