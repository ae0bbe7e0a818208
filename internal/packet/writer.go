package packet

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Writer is the mirror of Reader: Little-Endian fixed-width values and
// UTF-16LE null-terminated strings appended to an in-memory buffer.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteShort writes an int16 (2 bytes, LE).
func (w *Writer) WriteShort(val int16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteInt writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt(val int32) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteLong writes an int64 (8 bytes, LE).
func (w *Writer) WriteLong(val int64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(val))
	w.buf.Write(tmp[:])
}

// WriteFloat writes an IEEE 754 float32 (4 bytes, LE).
func (w *Writer) WriteFloat(val float32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(val))
	w.buf.Write(tmp[:])
}

// WriteString writes a UTF-16LE null-terminated string.
// Runes above 0xFFFF are written as surrogate pairs.
func (w *Writer) WriteString(s string) {
	estimatedSize := len(s)*2 + 2
	if w.buf.Cap()-w.buf.Len() < estimatedSize {
		w.buf.Grow(estimatedSize)
	}

	for _, r := range s {
		if r <= 0xFFFF {
			w.buf.WriteByte(byte(r))
			w.buf.WriteByte(byte(r >> 8))
			continue
		}
		r -= 0x10000
		high := uint16((r >> 10) + 0xD800)
		low := uint16((r & 0x3FF) + 0xDC00)
		w.buf.WriteByte(byte(high))
		w.buf.WriteByte(byte(high >> 8))
		w.buf.WriteByte(byte(low))
		w.buf.WriteByte(byte(low >> 8))
	}

	w.buf.WriteByte(0x00)
	w.buf.WriteByte(0x00)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// WriteZeros writes n zero bytes. Used to fill opaque regions.
func (w *Writer) WriteZeros(n int) {
	for range n {
		w.buf.WriteByte(0)
	}
}

// WriteTo implements io.WriterTo.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	return w.buf.WriteTo(dst)
}

// Bytes returns the accumulated data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the buffer.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}
