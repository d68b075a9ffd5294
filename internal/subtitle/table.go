package subtitle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// structured timestamp/text table
type YAMLWriter struct {
	// rows as flow mappings instead of block mappings
	Inline bool
}

type tableRow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Text  string `yaml:"text"`
}

type tableDoc struct {
	Title    string     `yaml:"title,omitempty"`
	Language string     `yaml:"language,omitempty"`
	Offset   float64    `yaml:"offset,omitempty"`
	Lyrics   []tableRow `yaml:"lyrics"`
}

func newTableDoc(sub *Subtitle) tableDoc {
	doc := tableDoc{
		Title:    sub.Title,
		Language: sub.Language,
		Offset:   sub.Offset.Seconds(),
		Lyrics:   make([]tableRow, 0, len(sub.Entries)),
	}
	for _, entry := range sub.Entries {
		doc.Lyrics = append(doc.Lyrics, tableRow{
			Start: formatVTTTime(entry.StartTime),
			End:   formatVTTTime(entry.EndTime),
			Text:  entry.Text,
		})
	}
	return doc
}

func (w *YAMLWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var root yaml.Node
	if err := root.Encode(newTableDoc(sub)); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	if w.Inline {
		setRowStyle(&root, yaml.FlowStyle)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}
	return f.Close()
}

// restyles each row mapping under the lyrics key
func setRowStyle(root *yaml.Node, style yaml.Style) {
	if root.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "lyrics" {
			continue
		}
		for _, row := range root.Content[i+1].Content {
			row.Style = style
		}
	}
}
