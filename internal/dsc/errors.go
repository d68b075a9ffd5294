package dsc

import (
	"errors"
	"fmt"
)

var (
	// id not present in the opcode table
	ErrUnknownCommand = errors.New("unknown command")

	// payload length does not match the opcode
	ErrInvalidData = errors.New("invalid command data")

	// stream ended in the middle of a header or record
	ErrTruncated = errors.New("truncated stream")
)

type UnknownCommandError struct {
	ID     int32
	Offset int64 // byte offset of the command id, -1 when encoding
}

func (e *UnknownCommandError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("command %d is unknown", e.ID)
	}
	return fmt.Sprintf("command %d is unknown (offset %d)", e.ID, e.Offset)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

type InvalidDataError struct {
	ID       int32
	Name     string
	Expected int
	Actual   int
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf(
		"invalid data: command %d (%s) requires %d bytes, got %d instead",
		e.ID, e.Name, e.Expected, e.Actual,
	)
}

func (e *InvalidDataError) Unwrap() error {
	return ErrInvalidData
}

// short read; ID and Name are empty while reading the header or an id
type TruncatedError struct {
	What     string
	ID       int32
	Name     string
	Offset   int64
	Expected int
	Actual   int
}

func (e *TruncatedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf(
			"truncated %s of command %d (%s) at offset %d: want %d bytes, got %d",
			e.What, e.ID, e.Name, e.Offset, e.Expected, e.Actual,
		)
	}
	return fmt.Sprintf(
		"truncated %s at offset %d: want %d bytes, got %d",
		e.What, e.Offset, e.Expected, e.Actual,
	)
}

func (e *TruncatedError) Unwrap() error {
	return ErrTruncated
}
