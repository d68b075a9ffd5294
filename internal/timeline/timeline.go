package timeline

import (
	"iter"
	"sort"

	"github.com/mgpai22/dscsub/internal/dsc"
)

// clock -> lyric line index, insertion ordered, last write wins per clock
type Map struct {
	order []Clock
	lines map[Clock]int
}

func NewMap() *Map {
	return &Map{lines: make(map[Clock]int)}
}

// binds at to line, replacing any earlier binding at the same clock
func (m *Map) Set(at Clock, line int) {
	if _, ok := m.lines[at]; !ok {
		m.order = append(m.order, at)
	}
	m.lines[at] = line
}

func (m *Map) Get(at Clock) (int, bool) {
	line, ok := m.lines[at]
	return line, ok
}

func (m *Map) Len() int {
	return len(m.order)
}

type Binding struct {
	At   Clock
	Line int
}

// bindings in ascending clock order
func (m *Map) Entries() []Binding {
	out := make([]Binding, 0, len(m.order))
	for _, at := range m.order {
		out = append(out, Binding{At: at, Line: m.lines[at]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

// accumulator threaded through Step; holds only the current clock
type State struct {
	Now Clock
}

func NewState() State {
	return State{}
}

// applies one command without touching s: TIME moves the clock, LYRIC
// yields a binding at the current clock for the caller to record
func Step(s State, cmd dsc.Command) (State, Binding, bool) {
	switch cmd.ID {
	case dsc.OpTime:
		s.Now = FromTimestamp(cmd.Word(0))
	case dsc.OpLyric:
		return s, Binding{At: s.Now, Line: int(cmd.Word(0))}, true
	}
	return s, Binding{}, false
}

// folds a decoded stream into a timeline, returning the first decode error
func Build(seq iter.Seq2[dsc.Command, error]) (*Map, error) {
	s, m := NewState(), NewMap()
	for cmd, err := range seq {
		if err != nil {
			return nil, err
		}
		s = apply(s, m, cmd)
	}
	return m, nil
}

func BuildCommands(cmds []dsc.Command) *Map {
	s, m := NewState(), NewMap()
	for _, cmd := range cmds {
		s = apply(s, m, cmd)
	}
	return m
}

func apply(s State, m *Map, cmd dsc.Command) State {
	next, b, ok := Step(s, cmd)
	if ok {
		m.Set(b.At, b.Line)
	}
	return next
}
