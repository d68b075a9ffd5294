package lyrics

import (
	"github.com/mgpai22/dscsub/internal/pvdb"
	"github.com/mgpai22/dscsub/internal/timeline"
)

// one timed line of text; Text is empty when the language lacks the line
type Cue struct {
	At   timeline.Clock
	Text string
}

// all cues of one language, in timeline clock order
type Track struct {
	Language string
	Cues     []Cue
}

// number of cues with text
func (t Track) Filled() int {
	n := 0
	for _, c := range t.Cues {
		if c.Text != "" {
			n++
		}
	}
	return n
}

// source of lyric text keyed by language and line index
type Source interface {
	Languages() []string
	Text(lang string, index int) (string, bool)
}

var _ Source = (*pvdb.Lyrics)(nil)

// one track per language known to src; missing lines become empty cues
func Assemble(tl *timeline.Map, src Source) []Track {
	bindings := tl.Entries()
	langs := src.Languages()

	tracks := make([]Track, 0, len(langs))
	for _, lang := range langs {
		cues := make([]Cue, 0, len(bindings))
		for _, b := range bindings {
			text, _ := src.Text(lang, b.Line)
			cues = append(cues, Cue{At: b.At, Text: text})
		}
		tracks = append(tracks, Track{Language: lang, Cues: cues})
	}
	return tracks
}
