package dsc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"os"
)

// writes command records; the header is only written when asked for
type Encoder struct {
	w     io.Writer
	table *Table
}

func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderWithTable(w, defaultTable)
}

func NewEncoderWithTable(w io.Writer, table *Table) *Encoder {
	return &Encoder{w: w, table: table}
}

func (e *Encoder) WriteHeader(header [HeaderSize]byte) error {
	if _, err := e.w.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// validates cmd against the table, then writes id and payload verbatim
func (e *Encoder) Encode(cmd Command) error {
	op, ok := e.table.Lookup(cmd.ID)
	if !ok {
		return &UnknownCommandError{ID: cmd.ID, Offset: -1}
	}
	if len(cmd.Payload) != op.Size() {
		return &InvalidDataError{
			ID:       cmd.ID,
			Name:     op.Name,
			Expected: op.Size(),
			Actual:   len(cmd.Payload),
		}
	}

	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], uint32(cmd.ID))
	if _, err := e.w.Write(idBuf[:]); err != nil {
		return fmt.Errorf("failed to write command %s: %w", op.Name, err)
	}
	if _, err := e.w.Write(cmd.Payload); err != nil {
		return fmt.Errorf("failed to write payload of %s: %w", op.Name, err)
	}
	return nil
}

func (e *Encoder) EncodeAll(cmds []Command) error {
	for _, cmd := range cmds {
		if err := e.Encode(cmd); err != nil {
			return err
		}
	}
	return nil
}

// encodes a lazy sequence, stopping at the first decode or encode error
func (e *Encoder) EncodeSeq(seq iter.Seq2[Command, error]) error {
	for cmd, err := range seq {
		if err != nil {
			return err
		}
		if err := e.Encode(cmd); err != nil {
			return err
		}
	}
	return nil
}

// writes header followed by cmds to path
func WriteFile(path string, header [HeaderSize]byte, cmds []Command) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create DSC file: %w", err)
	}

	bw := bufio.NewWriter(f)
	enc := NewEncoder(bw)
	if err := enc.WriteHeader(header); err != nil {
		_ = f.Close()
		return err
	}
	if err := enc.EncodeAll(cmds); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush DSC file: %w", err)
	}
	return f.Close()
}
