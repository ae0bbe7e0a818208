package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
)

// DefaultStringCapacity: типичная длина имени в world-файлах (code units).
// Большинство area/prop names ≤32 символов.
const DefaultStringCapacity = 32

// ErrNotEnoughData is returned when the source ends before a read is satisfied.
var ErrNotEnoughData = errors.New("not enough data")

// Reader is a forward-only cursor over a byte slice.
// Uses Little-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new reader positioned at the first byte.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

func (r *Reader) need(op string, n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("%s: %w (pos=%d, need=%d, len=%d)", op, ErrNotEnoughData, r.pos, n, len(r.data))
	}
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need("ReadByte", 1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadShort reads an int16 (2 bytes, LE).
func (r *Reader) ReadShort() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need("ReadUint16", 2); err != nil {
		return 0, err
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadInt reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need("ReadUint32", 4); err != nil {
		return 0, err
	}
	val := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadLong reads an int64 (8 bytes, LE).
func (r *Reader) ReadLong() (int64, error) {
	if err := r.need("ReadLong", 8); err != nil {
		return 0, err
	}
	val := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return val, nil
}

// ReadFloat reads an IEEE 754 float32 (4 bytes, LE).
func (r *Reader) ReadFloat() (float32, error) {
	if err := r.need("ReadFloat", 4); err != nil {
		return 0, err
	}
	bits := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

// ReadString reads a UTF-16LE string terminated by a zero code unit.
// There is no length prefix; the terminator is consumed but not returned.
// Unpaired surrogates decode to U+FFFD.
func (r *Reader) ReadString() (string, error) {
	units := make([]uint16, 0, DefaultStringCapacity)

	for {
		if r.pos+2 > len(r.data) {
			return "", fmt.Errorf("ReadString: %w (pos=%d, len=%d)", ErrNotEnoughData, r.pos, len(r.data))
		}

		u := binary.LittleEndian.Uint16(r.data[r.pos:])
		r.pos += 2

		if u == 0 {
			break
		}

		units = append(units, u)
	}

	return string(utf16.Decode(units)), nil
}

// ReadBytes reads n bytes (zero-copy, returns a subslice of the internal data).
// Caller MUST NOT modify returned bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if err := r.need("ReadBytes", n); err != nil {
		return nil, err
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by exactly n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("Skip: negative count %d", n)
	}
	if err := r.need("Skip", n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
