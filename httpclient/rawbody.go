package httpclient

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawBody is an undecoded response body with conversion helpers.
type RawBody []byte

// String returns the body as text.
func (b RawBody) String() string { return string(b) }

// Lines splits the body on newlines. A trailing newline does not produce an
// empty final line.
func (b RawBody) Lines() []string {
	s := strings.TrimSuffix(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Int parses the trimmed body as a base-10 int.
func (b RawBody) Int() (int, error) { return strconv.Atoi(b.trimmed()) }

// Int64 parses the trimmed body as a base-10 int64.
func (b RawBody) Int64() (int64, error) { return strconv.ParseInt(b.trimmed(), 10, 64) }

// Float64 parses the trimmed body as a float64.
func (b RawBody) Float64() (float64, error) { return strconv.ParseFloat(b.trimmed(), 64) }

// Bool parses the trimmed body as a bool.
func (b RawBody) Bool() (bool, error) { return strconv.ParseBool(b.trimmed()) }

func (b RawBody) trimmed() string { return strings.TrimSpace(string(b)) }

// decodePrimitive fills scalar targets straight from the body. It reports
// false when target is not a scalar pointer and a transformer is needed.
func decodePrimitive(r io.Reader, target any) (bool, error) {
	switch target.(type) {
	case *string, *[]byte, *RawBody, *bool,
		*int, *int8, *int16, *int32, *int64,
		*uint, *uint8, *uint16, *uint32, *uint64,
		*float32, *float64:
	default:
		return false, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return true, err
	}
	raw := RawBody(data)
	s := raw.trimmed()

	switch t := target.(type) {
	case *string:
		*t = string(data)
	case *[]byte:
		*t = data
	case *RawBody:
		*t = raw
	case *bool:
		*t, err = strconv.ParseBool(s)
	case *int:
		*t, err = strconv.Atoi(s)
	case *int8:
		err = parseInt(s, 8, func(v int64) { *t = int8(v) })
	case *int16:
		err = parseInt(s, 16, func(v int64) { *t = int16(v) })
	case *int32:
		err = parseInt(s, 32, func(v int64) { *t = int32(v) })
	case *int64:
		*t, err = strconv.ParseInt(s, 10, 64)
	case *uint:
		err = parseUint(s, strconv.IntSize, func(v uint64) { *t = uint(v) })
	case *uint8:
		err = parseUint(s, 8, func(v uint64) { *t = uint8(v) })
	case *uint16:
		err = parseUint(s, 16, func(v uint64) { *t = uint16(v) })
	case *uint32:
		err = parseUint(s, 32, func(v uint64) { *t = uint32(v) })
	case *uint64:
		*t, err = strconv.ParseUint(s, 10, 64)
	case *float32:
		var v float64
		v, err = strconv.ParseFloat(s, 32)
		*t = float32(v)
	case *float64:
		*t, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return true, fmt.Errorf("parse %T: %w", target, err)
	}
	return true, nil
}

func parseInt(s string, bits int, set func(int64)) error {
	v, err := strconv.ParseInt(s, 10, bits)
	if err == nil {
		set(v)
	}
	return err
}

func parseUint(s string, bits int, set func(uint64)) error {
	v, err := strconv.ParseUint(s, 10, bits)
	if err == nil {
		set(v)
	}
	return err
}
