package dsc

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// one decoded record: id, resolved name and raw parameter bytes
type Command struct {
	ID      int32
	Name    string
	Payload []byte
}

// parameter word i as a little-endian signed integer
func (c Command) Param(i int) int32 {
	return int32(c.Word(i))
}

// parameter word i as a little-endian unsigned integer, 0 when out of range
func (c Command) Word(i int) uint32 {
	off := i * 4
	if i < 0 || off+4 > len(c.Payload) {
		return 0
	}
	return binary.LittleEndian.Uint32(c.Payload[off:])
}

func (c Command) Words() int {
	return len(c.Payload) / 4
}

// NAME(p0, p1, ...)
func (c Command) String() string {
	var sb strings.Builder
	name := c.Name
	if name == "" {
		name = strconv.Itoa(int(c.ID))
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	for i := 0; i < c.Words(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(c.Param(i))))
	}
	sb.WriteByte(')')
	return sb.String()
}
