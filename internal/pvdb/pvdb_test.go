package pvdb

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const sampleDB = `# comment
pv_001.song_name=テストソング
pv_001.song_name_en=Test Song
pv_001.difficulty.hard.0.script_file_name=rom/script/pv_001_hard.dsc

   # indented comment
pv_001.lyric.001=こんにちは
pv_001.lyric.002=世界
pv_001.lyric_en.001=Hello
pv_001.lyric_en.002=World
pv_001.lyric_en.001=Hello again
pv_002.song_name_en=Other=Song
pv_002.difficulty.easy.0.script_file_name=rom\script\pv_002_easy.dsc
pv_002.lyric_fr.3=Trois
pv_002.lyric_fr.x=ignored
cmn_item.0.name=not a song
`

func mustDB(t *testing.T, text string) *DB {
	t.Helper()
	entries, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return New(entries)
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleDB))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 13 {
		t.Fatalf("expected 13 entries, got %d", len(entries))
	}
	first := entries[0]
	if !reflect.DeepEqual(first.Key, []string{"pv_001", "song_name"}) || first.Line != 2 {
		t.Errorf("unexpected first entry %+v", first)
	}
}

func TestParseSplitsOnFirstEquals(t *testing.T) {
	db := mustDB(t, sampleDB)
	name, ok := db.SongName(2, "_en")
	if !ok || name != "Other=Song" {
		t.Errorf("SongName(2) = %q, %v", name, ok)
	}
}

func TestParseMalformedLine(t *testing.T) {
	_, err := ParseLines([]string{"pv_001.song_name=ok", "", "pv_001.broken", "pv_001.after=x"})
	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedLineError, got %v", err)
	}
	if malformed.Line != 3 || malformed.Text != "pv_001.broken" {
		t.Errorf("unexpected error fields %+v", malformed)
	}
	if !errors.Is(err, ErrMalformedLine) {
		t.Error("expected errors.Is(err, ErrMalformedLine)")
	}
}

func TestSongName(t *testing.T) {
	db := mustDB(t, "pv_001.song_name_en=Test Song\n")
	if name, ok := db.SongName(1, "_en"); !ok || name != "Test Song" {
		t.Errorf("SongName(1, _en) = %q, %v", name, ok)
	}
	if _, ok := db.SongName(1, "_fr"); ok {
		t.Error("expected no name for tag _fr")
	}
	if _, ok := db.SongName(2, "_en"); ok {
		t.Error("expected no name for unknown song")
	}

	db = mustDB(t, sampleDB)
	if name, _ := db.SongName(1, ""); name != "テストソング" {
		t.Errorf("SongName(1, \"\") = %q", name)
	}
}

func TestSongEntriesExcludeOtherKeys(t *testing.T) {
	db := mustDB(t, sampleDB)
	if n := len(db.SongEntries(1)); n != 8 {
		t.Errorf("expected 8 entries for song 1, got %d", n)
	}
	if !reflect.DeepEqual(db.SongIDs(), []int{1, 2}) {
		t.Errorf("unexpected song ids %v", db.SongIDs())
	}
}

func TestScriptFiles(t *testing.T) {
	db := mustDB(t, sampleDB)
	want := []ScriptRef{
		{Song: "pv_001", Path: "rom/script/pv_001_hard.dsc"},
		{Song: "pv_002", Path: `rom\script\pv_002_easy.dsc`},
	}
	if got := db.ScriptFiles(); !reflect.DeepEqual(got, want) {
		t.Errorf("ScriptFiles() = %+v, want %+v", got, want)
	}
	if id, ok := want[1].SongID(); !ok || id != 2 {
		t.Errorf("SongID() = %d, %v", id, ok)
	}
}

func TestLyrics(t *testing.T) {
	db := mustDB(t, sampleDB)
	lyr := db.Lyrics(1)

	if !reflect.DeepEqual(lyr.Languages(), []string{"en", "jp"}) {
		t.Errorf("unexpected languages %v", lyr.Languages())
	}
	if s, ok := lyr.Text("jp", 1); !ok || s != "こんにちは" {
		t.Errorf("Text(jp, 1) = %q, %v", s, ok)
	}
	// duplicate key: last one wins
	if s, _ := lyr.Text("en", 1); s != "Hello again" {
		t.Errorf("Text(en, 1) = %q", s)
	}
	want := []Line{{1, "Hello again"}, {2, "World"}}
	if got := lyr.Lines("en"); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines(en) = %+v, want %+v", got, want)
	}

	fr := db.Lyrics(2)
	if fr.Len() != 1 {
		t.Errorf("expected non-numeric index to be skipped, got %d lines", fr.Len())
	}
	if db.Lyrics(99).Len() != 0 {
		t.Error("expected empty lyrics for unknown song")
	}
}

func TestParseEncodings(t *testing.T) {
	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("pv_003.lyric.1=歌\n")...)
	entries, err := Parse(bytes.NewReader(bom))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if entries[0].Key[0] != "pv_003" {
		t.Errorf("BOM not stripped: %q", entries[0].Key[0])
	}

	sjis, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), "pv_003.lyric.1=歌\n")
	if err != nil {
		t.Fatalf("encode shift-jis: %v", err)
	}
	entries, err = ParseEncoded(strings.NewReader(sjis), EncodingShiftJIS)
	if err != nil {
		t.Fatalf("ParseEncoded failed: %v", err)
	}
	if entries[0].Value != "歌" {
		t.Errorf("unexpected value %q", entries[0].Value)
	}

	if _, err := ParseEncoded(strings.NewReader(""), "latin-9"); err == nil {
		t.Error("expected unsupported encoding error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod_pv_db.txt")
	if err := os.WriteFile(path, []byte(sampleDB), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	db, err := Load(path, EncodingUTF8)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n := len(db.SongEntries(1)); n != 8 {
		t.Errorf("expected 8 entries for song 1, got %d", n)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), EncodingUTF8); err == nil {
		t.Error("expected error for missing file")
	}
}
