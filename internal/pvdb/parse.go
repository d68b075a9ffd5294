package pvdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrMalformedLine = errors.New("malformed database line")

type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: missing '=' in %q", e.Line, e.Text)
}

func (e *MalformedLineError) Unwrap() error {
	return ErrMalformedLine
}

// one key=value line, key split on dots
type Entry struct {
	Key   []string
	Value string
	Line  int
}

// last key segment
func (e Entry) Leaf() string {
	return e.Key[len(e.Key)-1]
}

// segment i or "" when the key is shorter
func (e Entry) Segment(i int) string {
	if i < 0 || i >= len(e.Key) {
		return ""
	}
	return e.Key[i]
}

const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift-jis"
)

func decoderFor(name string) (transform.Transformer, error) {
	switch strings.ToLower(name) {
	case "", EncodingUTF8, "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case EncodingShiftJIS, "sjis", "shift_jis":
		return japanese.ShiftJIS.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported database encoding %q: use utf-8 or shift-jis", name)
	}
}

// parses a database stream encoded as UTF-8 (BOM tolerated)
func Parse(r io.Reader) ([]Entry, error) {
	return ParseEncoded(r, EncodingUTF8)
}

func ParseEncoded(r io.Reader, enc string) ([]Entry, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(transform.NewReader(r, dec))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []Entry
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		entry, ok, err := parseLine(scanner.Text(), lineNum)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading database: %w", err)
	}

	return entries, nil
}

// parses already split lines, numbering them from 1
func ParseLines(lines []string) ([]Entry, error) {
	var entries []Entry
	for i, line := range lines {
		entry, ok, err := parseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func parseLine(line string, lineNum int) (Entry, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false, nil
	}

	key, value, found := strings.Cut(line, "=")
	if !found {
		return Entry{}, false, &MalformedLineError{Line: lineNum, Text: line}
	}

	return Entry{
		Key:   strings.Split(key, "."),
		Value: value,
		Line:  lineNum,
	}, true, nil
}
