package dsc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

const HeaderSize = 4

// forward-only command stream over a reader
type Decoder struct {
	r      io.Reader
	table  *Table
	header [HeaderSize]byte
	offset int64
	state  decoderState
	err    error

	headerErr error
}

type decoderState int

const (
	stateStart decoderState = iota
	stateRecords
	stateDone
)

func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderWithTable(r, defaultTable)
}

func NewDecoderWithTable(r io.Reader, table *Table) *Decoder {
	return &Decoder{r: r, table: table}
}

// reads the header if it has not been consumed yet; an empty stream has a zero header
func (d *Decoder) Header() ([HeaderSize]byte, error) {
	if d.state == stateStart {
		d.readHeader()
	}
	return d.header, d.headerErr
}

// bytes consumed so far
func (d *Decoder) Offset() int64 {
	return d.offset
}

func (d *Decoder) readHeader() {
	n, err := io.ReadFull(d.r, d.header[:])
	d.offset += int64(n)
	switch {
	case err == nil:
		d.state = stateRecords
	case errors.Is(err, io.EOF):
		// empty input is an empty stream
		d.state = stateDone
		d.err = io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		d.fail(&TruncatedError{What: "header", Offset: 0, Expected: HeaderSize, Actual: n})
		d.headerErr = d.err
	default:
		d.fail(fmt.Errorf("failed to read header: %w", err))
		d.headerErr = d.err
	}
}

func (d *Decoder) fail(err error) {
	d.state = stateDone
	d.err = err
}

// next command, io.EOF once the stream ends cleanly between records
func (d *Decoder) Next() (Command, error) {
	if d.state == stateStart {
		d.readHeader()
	}
	if d.state == stateDone {
		return Command{}, d.err
	}

	start := d.offset
	var idBuf [4]byte
	n, err := io.ReadFull(d.r, idBuf[:])
	d.offset += int64(n)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		d.fail(io.EOF)
		return Command{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		d.fail(&TruncatedError{What: "command id", Offset: start, Expected: 4, Actual: n})
		return Command{}, d.err
	default:
		d.fail(fmt.Errorf("failed to read command id at offset %d: %w", start, err))
		return Command{}, d.err
	}

	id := int32(binary.LittleEndian.Uint32(idBuf[:]))
	op, ok := d.table.Lookup(id)
	if !ok {
		d.fail(&UnknownCommandError{ID: id, Offset: start})
		return Command{}, d.err
	}

	payload := make([]byte, op.Size())
	n, err = io.ReadFull(d.r, payload)
	d.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.fail(&TruncatedError{
				What:     "payload",
				ID:       id,
				Name:     op.Name,
				Offset:   start,
				Expected: op.Size(),
				Actual:   n,
			})
		} else {
			d.fail(fmt.Errorf("failed to read payload of %s at offset %d: %w", op.Name, start, err))
		}
		return Command{}, d.err
	}

	return Command{ID: id, Name: op.Name, Payload: payload}, nil
}

// lazy sequence of commands; the first error ends it, clean EOF is not yielded
func (d *Decoder) All() iter.Seq2[Command, error] {
	return func(yield func(Command, error) bool) {
		for {
			cmd, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Command{}, err)
				return
			}
			if !yield(cmd, nil) {
				return
			}
		}
	}
}

// decodes r with the built-in table
func Commands(r io.Reader) iter.Seq2[Command, error] {
	return NewDecoder(r).All()
}

// drains a sequence into a slice, stopping at the first error
func Collect(seq iter.Seq2[Command, error]) ([]Command, error) {
	var cmds []Command
	for cmd, err := range seq {
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// decoder over a file; closing it releases the handle
type FileDecoder struct {
	*Decoder
	f *os.File
}

func Open(path string) (*FileDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DSC file: %w", err)
	}
	return &FileDecoder{Decoder: NewDecoder(f), f: f}, nil
}

func (fd *FileDecoder) Close() error {
	return fd.f.Close()
}

// whole-file decode
func ReadFile(path string) ([HeaderSize]byte, []Command, error) {
	fd, err := Open(path)
	if err != nil {
		return [HeaderSize]byte{}, nil, err
	}
	defer func() {
		_ = fd.Close()
	}()

	header, err := fd.Header()
	if err != nil {
		return header, nil, fmt.Errorf("%s: %w", path, err)
	}
	cmds, err := Collect(fd.All())
	if err != nil {
		return header, nil, fmt.Errorf("%s: %w", path, err)
	}
	return header, cmds, nil
}
