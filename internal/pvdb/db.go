package pvdb

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	songPrefix  = "pv_"
	lyricPrefix = "lyric"

	// language tag for lyric keys without a suffix
	DefaultLanguage = "jp"

	scriptFileKey = "script_file_name"
	songNameKey   = "song_name"
)

// script reference as written in the database
type ScriptRef struct {
	Song string // first key segment, e.g. pv_001
	Path string
}

// song id parsed from the reference, false when not pv_<int>
func (r ScriptRef) SongID() (int, bool) {
	return ParseSongID(r.Song)
}

type LyricKey struct {
	Language string
	Index    int
}

type Line struct {
	Index int
	Text  string
}

// (language, index) -> text for one song
type Lyrics struct {
	text      map[LyricKey]string
	languages []string
}

func (l *Lyrics) Text(lang string, index int) (string, bool) {
	if l == nil {
		return "", false
	}
	s, ok := l.text[LyricKey{Language: lang, Index: index}]
	return s, ok
}

// language tags in ascending order
func (l *Lyrics) Languages() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.languages...)
}

// lines of one language ordered by index
func (l *Lyrics) Lines(lang string) []Line {
	if l == nil {
		return nil
	}
	var lines []Line
	for k, v := range l.text {
		if k.Language == lang {
			lines = append(lines, Line{Index: k.Index, Text: v})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Index < lines[j].Index
	})
	return lines
}

func (l *Lyrics) Len() int {
	if l == nil {
		return 0
	}
	return len(l.text)
}

// indexed database; built once, read-only afterwards
type DB struct {
	songs   map[int][]Entry
	lyrics  map[int]*Lyrics
	scripts []ScriptRef
}

// pv_<int> -> int
func ParseSongID(segment string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(segment, songPrefix))
	if err != nil {
		return 0, false
	}
	return id, true
}

// indexes entries by song, lyric key and script reference
func New(entries []Entry) *DB {
	db := &DB{
		songs:   make(map[int][]Entry),
		lyrics:  make(map[int]*Lyrics),
	}

	for _, e := range entries {
		if e.Leaf() == scriptFileKey {
			db.scripts = append(db.scripts, ScriptRef{Song: e.Key[0], Path: e.Value})
		}

		id, ok := ParseSongID(e.Key[0])
		if !ok {
			continue
		}
		db.songs[id] = append(db.songs[id], e)

		lang, index, ok := lyricKey(e)
		if !ok {
			continue
		}
		lyr := db.lyrics[id]
		if lyr == nil {
			lyr = &Lyrics{text: make(map[LyricKey]string)}
			db.lyrics[id] = lyr
		}
		// later lines overwrite earlier ones
		lyr.text[LyricKey{Language: lang, Index: index}] = e.Value
	}

	for _, lyr := range db.lyrics {
		seen := make(map[string]bool)
		for k := range lyr.text {
			if !seen[k.Language] {
				seen[k.Language] = true
				lyr.languages = append(lyr.languages, k.Language)
			}
		}
		sort.Strings(lyr.languages)
	}

	return db
}

// pv_xxx.lyric[_lang].N
func lyricKey(e Entry) (string, int, bool) {
	seg := e.Segment(1)
	if !strings.HasPrefix(seg, lyricPrefix) {
		return "", 0, false
	}
	index, err := strconv.Atoi(e.Segment(2))
	if err != nil {
		return "", 0, false
	}

	lang := strings.TrimLeft(strings.TrimPrefix(seg, lyricPrefix), "_")
	if lang == "" {
		lang = DefaultLanguage
	}
	return lang, index, true
}

// opens, parses and indexes a database file
func Load(path, enc string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	entries, err := ParseEncoded(f, enc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database %s: %w", path, err)
	}
	return New(entries), nil
}

// entries of one song in file order
func (db *DB) SongEntries(id int) []Entry {
	return db.songs[id]
}

// sorted ids of every song with at least one entry
func (db *DB) SongIDs() []int {
	ids := make([]int, 0, len(db.songs))
	for id := range db.songs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// first song_name<tag> entry of the song, e.g. tag "_en"
func (db *DB) SongName(id int, tag string) (string, bool) {
	want := songNameKey + tag
	for _, e := range db.songs[id] {
		if e.Leaf() == want {
			return e.Value, true
		}
	}
	return "", false
}

// every script_file_name reference in file order
func (db *DB) ScriptFiles() []ScriptRef {
	return db.scripts
}

// lyric map of a song, never nil
func (db *DB) Lyrics(id int) *Lyrics {
	if lyr, ok := db.lyrics[id]; ok {
		return lyr
	}
	return &Lyrics{text: map[LyricKey]string{}}
}
