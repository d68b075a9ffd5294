package dsc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

var testHeader = [HeaderSize]byte{0x21, 0x09, 0x05, 0x14}

// little-endian words
func words(vals ...int32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return buf
}

func stream(records ...[]byte) []byte {
	var b bytes.Buffer
	b.Write(testHeader[:])
	for _, r := range records {
		b.Write(r)
	}
	return b.Bytes()
}

func TestDefaultTableDesignatedOpcodes(t *testing.T) {
	op, ok := Lookup(OpTime)
	if !ok || op.Name != "TIME" || op.Words != 1 {
		t.Errorf("TIME opcode = %+v, %v", op, ok)
	}
	op, ok = Lookup(OpLyric)
	if !ok || op.Name != "LYRIC" || op.Words != 2 {
		t.Errorf("LYRIC opcode = %+v, %v", op, ok)
	}
	if _, ok := Lookup(9999); ok {
		t.Error("expected id 9999 to be absent")
	}
	if DefaultTable().Len() != 107 {
		t.Errorf("expected 107 opcodes, got %d", DefaultTable().Len())
	}
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Opcode{{1, "A", 0}, {1, "B", 1}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	_, err = NewTable([]Opcode{{1, "A", -1}})
	if err == nil {
		t.Fatal("expected negative word count error")
	}
}

func TestDecodeConsumesExactRecordSizes(t *testing.T) {
	for _, op := range futureTone {
		payload := make([]byte, op.Size())
		for i := range payload {
			payload[i] = byte(i + 1)
		}
		data := stream(words(op.ID), payload, words(OpTime, 7))

		dec := NewDecoder(bytes.NewReader(data))
		cmd, err := dec.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", op.Name, err)
		}
		if cmd.ID != op.ID || cmd.Name != op.Name {
			t.Errorf("%s: got command %d (%s)", op.Name, cmd.ID, cmd.Name)
		}
		if len(cmd.Payload) != 4*op.Words {
			t.Errorf("%s: payload %d bytes, want %d", op.Name, len(cmd.Payload), 4*op.Words)
		}
		if got, want := dec.Offset(), int64(HeaderSize+4+4*op.Words); got != want {
			t.Errorf("%s: consumed %d bytes, want %d", op.Name, got, want)
		}

		next, err := dec.Next()
		if err != nil || next.ID != OpTime || next.Word(0) != 7 {
			t.Errorf("%s: following record decoded as %v, %v", op.Name, next, err)
		}
	}
}

func TestDecodeCleanEOF(t *testing.T) {
	data := stream(words(OpTime, 100000), words(OpLyric, 3, -1), words(25))
	cmds, err := Collect(Commands(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(cmds))
	}
	if cmds[1].String() != "LYRIC(3, -1)" {
		t.Errorf("unexpected rendering %q", cmds[1].String())
	}
	if cmds[2].Name != "MUSIC_PLAY" || len(cmds[2].Payload) != 0 {
		t.Errorf("unexpected zero-word command %+v", cmds[2])
	}
}

func TestDecodeEmptyAndHeaderOnly(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":       nil,
		"header only": testHeader[:],
	} {
		t.Run(name, func(t *testing.T) {
			dec := NewDecoder(bytes.NewReader(data))
			if _, err := dec.Header(); err != nil {
				t.Fatalf("Header() error: %v", err)
			}
			if _, err := dec.Next(); !errors.Is(err, io.EOF) {
				t.Errorf("expected io.EOF, got %v", err)
			}
		})
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	data := stream(words(OpTime, 1), words(4242), words(OpTime, 2))
	r := bytes.NewReader(data)
	dec := NewDecoder(r)

	if _, err := dec.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := dec.Next()
	var unknown *UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownCommandError, got %v", err)
	}
	if unknown.ID != 4242 || unknown.Offset != 12 {
		t.Errorf("unexpected error fields %+v", unknown)
	}
	if !errors.Is(err, ErrUnknownCommand) {
		t.Error("expected errors.Is(err, ErrUnknownCommand)")
	}
	// nothing past the offending id is read
	if r.Len() != 8 {
		t.Errorf("expected 8 unread bytes, got %d", r.Len())
	}
	if _, again := dec.Next(); again != err {
		t.Errorf("expected sticky error, got %v", again)
	}
}

func TestDecodeTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		what string
	}{
		{"partial header", testHeader[:2], "header"},
		{"partial id", stream([]byte{1, 0}), "command id"},
		{"short payload", stream(words(OpLyric, 1)), "payload"},
		{"missing payload", stream(words(OpTime)), "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collect(Commands(bytes.NewReader(tt.data)))
			var trunc *TruncatedError
			if !errors.As(err, &trunc) {
				t.Fatalf("expected TruncatedError, got %v", err)
			}
			if trunc.What != tt.what {
				t.Errorf("truncated %q, want %q", trunc.What, tt.what)
			}
			if !errors.Is(err, ErrTruncated) {
				t.Error("expected errors.Is(err, ErrTruncated)")
			}
		})
	}
}

func TestAllStopsEarly(t *testing.T) {
	data := stream(words(OpTime, 1), words(OpTime, 2), words(OpTime, 3))
	dec := NewDecoder(bytes.NewReader(data))
	for cmd, err := range dec.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmd.Word(0) == 2 {
			break
		}
	}
	cmd, err := dec.Next()
	if err != nil || cmd.Word(0) != 3 {
		t.Errorf("expected to resume at third record, got %v, %v", cmd, err)
	}
}

func TestRoundTrip(t *testing.T) {
	records := [][]byte{
		words(OpTime, 0),
		words(25),
		words(6, 0, 1, 2, 3, 4, 5, 6),
		words(OpTime, 123456),
		words(OpLyric, 1, -1),
		words(32),
	}
	data := stream(records...)

	dec := NewDecoder(bytes.NewReader(data))
	header, err := dec.Header()
	if err != nil {
		t.Fatalf("Header() error: %v", err)
	}
	if header != testHeader {
		t.Errorf("header %x, want %x", header, testHeader)
	}

	var out bytes.Buffer
	if err := NewEncoder(&out).EncodeSeq(dec.All()); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), data[HeaderSize:]) {
		t.Errorf("re-encoded records differ:\n got %x\nwant %x", out.Bytes(), data[HeaderSize:])
	}
}

func TestEncodeErrors(t *testing.T) {
	var out bytes.Buffer
	enc := NewEncoder(&out)

	err := enc.Encode(Command{ID: -5})
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}

	err = enc.Encode(Command{ID: OpLyric, Payload: words(1)})
	var invalid *InvalidDataError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidDataError, got %v", err)
	}
	if invalid.Name != "LYRIC" || invalid.Expected != 8 || invalid.Actual != 4 {
		t.Errorf("unexpected error fields %+v", invalid)
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes", out.Len())
	}
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pv_001_hard.dsc")
	cmds := []Command{
		{ID: OpTime, Name: "TIME", Payload: words(100000)},
		{ID: OpLyric, Name: "LYRIC", Payload: words(1, -1)},
	}
	if err := WriteFile(path, testHeader, cmds); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	header, got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if header != testHeader {
		t.Errorf("header %x, want %x", header, testHeader)
	}
	if len(got) != 2 || got[0].Word(0) != 100000 || got[1].Param(1) != -1 {
		t.Errorf("unexpected commands %v", got)
	}
}
