package lyrics

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mgpai22/dscsub/internal/pvdb"
	"github.com/mgpai22/dscsub/internal/timeline"
)

func lyricsFrom(t *testing.T, text string) *pvdb.Lyrics {
	t.Helper()
	entries, err := pvdb.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return pvdb.New(entries).Lyrics(1)
}

func TestAssembleJoinsLanguages(t *testing.T) {
	src := lyricsFrom(t, "pv_001.lyric_en.0=Hello\npv_001.lyric.0=こんにちは\n")
	tl := timeline.NewMap()
	tl.Set(timeline.Clock{}, 0)

	got := Assemble(tl, src)
	want := []Track{
		{Language: "en", Cues: []Cue{{At: timeline.Clock{}, Text: "Hello"}}},
		{Language: "jp", Cues: []Cue{{At: timeline.Clock{}, Text: "こんにちは"}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble() = %+v, want %+v", got, want)
	}
}

func TestAssembleMissingLinesAreEmpty(t *testing.T) {
	src := lyricsFrom(t, "pv_001.lyric_en.1=One\npv_001.lyric_fr.9=Neuf\n")
	tl := timeline.NewMap()
	tl.Set(timeline.Clock{Second: 2}, 2)
	tl.Set(timeline.Clock{Second: 1}, 1)

	tracks := Assemble(tl, src)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	en := tracks[0]
	if en.Language != "en" || len(en.Cues) != 2 {
		t.Fatalf("unexpected en track %+v", en)
	}
	if en.Cues[0].At != (timeline.Clock{Second: 1}) || en.Cues[0].Text != "One" {
		t.Errorf("unexpected first cue %+v", en.Cues[0])
	}
	if en.Cues[1].Text != "" {
		t.Errorf("expected empty text for missing line, got %q", en.Cues[1].Text)
	}
	if en.Filled() != 1 {
		t.Errorf("expected 1 filled cue, got %d", en.Filled())
	}

	// never referenced by the timeline, still present
	fr := tracks[1]
	if fr.Language != "fr" || fr.Filled() != 0 || len(fr.Cues) != 2 {
		t.Errorf("unexpected fr track %+v", fr)
	}
	if fr.Cues[1].At != (timeline.Clock{Second: 2}) || fr.Cues[1].Text != "" {
		t.Errorf("unexpected second fr cue %+v", fr.Cues[1])
	}
}

func TestAssembleNoLyrics(t *testing.T) {
	tl := timeline.NewMap()
	tl.Set(timeline.Clock{}, 0)
	if tracks := Assemble(tl, lyricsFrom(t, "")); len(tracks) != 0 {
		t.Errorf("expected no tracks, got %+v", tracks)
	}
}
