package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timestampRegex = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})$`)

// Decode parses SubRip text into a structured document. Index lines open a
// cue, the timing line sets its bounds and text lines accumulate until the
// next blank line. Text that appears before any timing line is ignored.
func Decode(text string) (*Document, error) {
	doc := &Document{}

	var current *Cue
	var timed bool
	var textLines []string

	flush := func() {
		if current != nil && timed {
			current.Text = strings.Join(textLines, "\n")
			doc.Cues = append(doc.Cues, *current)
		}
		current = nil
		timed = false
		textLines = nil
	}

	for i, line := range DecodeLines(text) {
		lineNum := i + 1

		if current != nil && timed && line.Kind != LineBlank {
			// once timed, every non-blank line belongs to the cue text
			textLines = append(textLines, line.Raw)
			continue
		}

		switch line.Kind {
		case LineBlank:
			flush()

		case LineIndex:
			index, err := strconv.Atoi(line.Content())
			if err != nil {
				return nil, fmt.Errorf("invalid index at line %d: %w", lineNum, err)
			}
			current = &Cue{Index: index}

		case LineTiming:
			if current == nil {
				current = &Cue{Index: len(doc.Cues) + 1}
			}
			start, end, err := parseTimingLine(line.Content())
			if err != nil {
				return nil, fmt.Errorf("invalid timing at line %d: %w", lineNum, err)
			}
			current.Start = start
			current.End = end
			timed = true

		case LineText:
			// stray text outside a cue
		}
	}
	flush()

	return doc, nil
}

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing arrow in %q", line)
	}

	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}

	// anything after the end timestamp (position hints) is ignored
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp in %q", line)
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// ParseTimestamp parses HH:MM:SS,mmm (a dot separator is accepted too)
// into seconds.
func ParseTimestamp(ts string) (float64, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(ts))
	if len(matches) != 5 {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}

	h, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(matches[3])
	if err != nil {
		return 0, err
	}
	// "5" after the comma means 500ms, as in "00:00:01,5"
	msText := matches[4] + strings.Repeat("0", 3-len(matches[4]))
	ms, err := strconv.Atoi(msText)
	if err != nil {
		return 0, err
	}
	if m > 59 || s > 59 {
		return 0, fmt.Errorf("timestamp field out of range in %q", ts)
	}

	return float64(h*3600+m*60+s) + float64(ms)/1000, nil
}
