package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

type writerOptions struct {
	inline bool
}

type Option func(*writerOptions)

// flow-style rows for the YAML table
func WithInline(inline bool) Option {
	return func(o *writerOptions) {
		o.inline = inline
	}
}

func NewWriter(format Format, opts ...Option) (Writer, error) {
	var o writerOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "Lyrics",
			FontName: "Arial",
			FontSize: 48,
		}, nil
	case FormatYAML:
		return &YAMLWriter{Inline: o.inline}, nil
	case FormatSQLite:
		return &SQLiteWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the subtitle to an SRT file
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	s := astisub.NewSubtitles()
	for _, entry := range sub.Entries {
		item := &astisub.Item{
			StartAt: entry.StartTime,
			EndAt:   entry.EndTime,
		}
		for _, line := range strings.Split(entry.Text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{
				Items: []astisub.LineItem{{Text: line}},
			})
		}
		s.Items = append(s.Items, item)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create SRT file: %w", err)
	}
	if len(s.Items) > 0 {
		if err := s.WriteToSRT(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write SRT file: %w", err)
		}
	}
	return f.Close()
}

// writes the subtitle to a VTT file; lines are newline-joined, so the
// file ends with a single newline after the last cue
func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	// VTT header
	lines := []string{"WEBVTT"}
	if sub.Title != "" {
		lines = append(lines, "NOTE "+sub.Title)
	}
	if sub.Offset != 0 {
		lines = append(lines, fmt.Sprintf("NOTE Offset: %s seconds", formatSeconds(sub.Offset)))
	}
	lines = append(lines, "")

	for _, entry := range sub.Entries {
		// timestamps: 00:00:00.000 --> 00:00:00.000
		lines = append(lines,
			fmt.Sprintf("%s --> %s", formatVTTTime(entry.StartTime), formatVTTTime(entry.EndTime)),
			entry.Text,
			"")
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}

// shortest decimal form that always keeps a fractional part: 2s -> "2.0"
func formatSeconds(d time.Duration) string {
	s := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// writes the subtitle to an ASS file: one lyric style per language,
// bottom-centred, with the song name and offset in the script info
func (w *ASSWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	title := w.Title
	if sub.Title != "" {
		title = sub.Title
	}
	style := lyricStyle(sub.Language)
	font := w.FontName
	if f, ok := lyricFonts[sub.Language]; ok {
		font = f
	}

	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	if sub.Language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", sub.Language)
	}
	if sub.Offset != 0 {
		fmt.Fprintf(&sb, "; Offset: %s seconds\n", formatSeconds(sub.Offset))
	}
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("WrapStyle: 2\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&sb, "Style: %s,%s,%d,&H00FFFFFF,&H000000FF,&H00402000,&H80000000,1,0,0,0,100,100,0,0,1,3,1,2,20,20,30,1\n\n",
		style, font, w.FontSize)

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, entry := range sub.Entries {
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,%s,%d,0,0,0,,%s\n",
			formatASSTime(entry.StartTime),
			formatASSTime(entry.EndTime),
			style,
			entry.Index,
			escapeASSText(entry.Text))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// fonts with glyph coverage for the lyric languages the game ships
var lyricFonts = map[string]string{
	"jp": "Noto Sans CJK JP",
	"cn": "Noto Sans CJK SC",
	"tw": "Noto Sans CJK TC",
	"kr": "Noto Sans CJK KR",
}

func lyricStyle(lang string) string {
	if lang == "" {
		return "Lyric"
	}
	return "Lyric_" + lang
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func formatASSTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func escapeASSText(text string) string {
	replacer := strings.NewReplacer(
		"{", "\\{",
		"}", "\\}",
		"\n", "\\N",
	)
	return replacer.Replace(text)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	case FormatYAML:
		return ".yaml"
	case FormatSQLite:
		return ".sqlite"
	default:
		return ".vtt"
	}
}

// pv_<song>_<lang><ext> inside dir
func OutputPath(dir string, songID int, lang string, format Format) string {
	name := fmt.Sprintf("pv_%d_%s%s", songID, lang, GetExtensionForFormat(format))
	return filepath.Join(dir, name)
}
