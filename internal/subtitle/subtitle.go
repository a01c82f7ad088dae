package subtitle

// Segment is one timed piece of recognized speech. Times are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Cue is one subtitle entry. Index is 1-based and is reassigned from the
// cue's position whenever a document is encoded.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Document is an ordered sequence of cues.
type Document struct {
	Cues []Cue
}

// Extension is the only subtitle format this module reads and writes.
const Extension = ".srt"

// CuesFromSegments maps recognizer output to cues, one cue per segment,
// indexed by position.
func CuesFromSegments(segments []Segment) []Cue {
	cues := make([]Cue, len(segments))
	for i, seg := range segments {
		cues[i] = Cue{
			Index: i + 1,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}
	return cues
}
