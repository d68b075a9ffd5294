package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// represents single subtitle entry
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents complete subtitle track
type Subtitle struct {
	Entries  []Entry
	Language string
	Format   string
	Title    string
	Offset   time.Duration
}

// represents supported output formats
type Format string

const (
	FormatSRT    Format = "srt"
	FormatVTT    Format = "vtt"
	FormatASS    Format = "ass"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

var formats = []Format{FormatVTT, FormatSRT, FormatASS, FormatYAML, FormatSQLite}

// parses a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "srt":
		return FormatSRT, nil
	case "ass", "ssa":
		return FormatASS, nil
	case "yaml", "yml", "table":
		return FormatYAML, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unsupported format %q: use %s", s, strings.Join(names, ", "))
}

// interface for subtitle generation
type Generator interface {
	Generate(cues []Cue) (*Subtitle, error)
}

// represents one timed lyric line; its end is the next cue's start
type Cue struct {
	StartTime time.Duration
	Text      string
}

// interface for writing subtitles to files
type Writer interface {
	Write(subtitle *Subtitle, path string) error
}
