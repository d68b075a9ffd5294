package subtitle

import (
	"sort"
	"time"
)

// DefaultGenerator implements the Generator interface
type DefaultGenerator struct {
	Offset       time.Duration
	LastDuration time.Duration
}

func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{
		LastDuration: 5 * time.Second,
	}
}

// converts lyric cues to subtitle entries
func (g *DefaultGenerator) Generate(cues []Cue) (*Subtitle, error) {
	sorted := make([]Cue, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	entries := []Entry{}
	index := 1

	for i, cue := range sorted {
		start := g.shift(cue.StartTime)

		var end time.Duration
		if i < len(sorted)-1 {
			// blank cues still end the previous line
			end = g.shift(sorted[i+1].StartTime)
		} else {
			end = start + g.LastDuration
		}

		if cue.Text == "" {
			continue
		}

		entries = append(entries, Entry{
			Index:     index,
			StartTime: start.Round(time.Millisecond),
			EndTime:   end.Round(time.Millisecond),
			Text:      cue.Text,
		})
		index++
	}

	return &Subtitle{
		Entries: entries,
		Offset:  g.Offset,
	}, nil
}

// applies the offset, never before zero
func (g *DefaultGenerator) shift(d time.Duration) time.Duration {
	d += g.Offset
	if d < 0 {
		return 0
	}
	return d
}
