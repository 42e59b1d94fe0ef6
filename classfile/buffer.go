package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

const initialBufferSize = 8 * 1024

// Buffer is a bounds-checked sequential cursor over the raw bytes of one
// class file. LoadFrom fills it from a stream, doubling the backing array
// whenever it runs out of room; the array is kept between loads so a single
// Buffer can serve an entire scan without reallocating.
//
// Reads use a sticky error: after the first failure every read returns a
// zero value without advancing, and Err reports the failure. A Buffer is
// not safe for concurrent use.
type Buffer struct {
	data []byte
	size int
	pos  int
	err  error
}

func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, initialBufferSize)}
}

// LoadFrom resets the cursor and reads the stream until it is exhausted.
// The previous contents are discarded but the backing array is reused.
func (b *Buffer) LoadFrom(r io.Reader) error {
	b.size = 0
	b.pos = 0
	b.err = nil
	for {
		if b.size == len(b.data) {
			grown := make([]byte, 2*len(b.data))
			copy(grown, b.data)
			b.data = grown
		}
		n, err := r.Read(b.data[b.size:])
		b.size += n
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load class file data: %w", err)
		}
	}
}

// Size returns the number of bytes loaded by the last LoadFrom.
func (b *Buffer) Size() int { return b.size }

// Pos returns the current read position.
func (b *Buffer) Pos() int { return b.pos }

// Err returns the first read failure, or nil.
func (b *Buffer) Err() error { return b.err }

func (b *Buffer) take(n int) []byte {
	if b.err != nil {
		return nil
	}
	if n < 0 || b.pos+n > b.size {
		b.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrUnexpectedEOF, n, b.pos, b.size)
		return nil
	}
	s := b.data[b.pos : b.pos+n]
	b.pos += n
	return s
}

func (b *Buffer) ReadU1() uint8 {
	s := b.take(1)
	if s == nil {
		return 0
	}
	return s[0]
}

func (b *Buffer) ReadU2() uint16 {
	s := b.take(2)
	if s == nil {
		return 0
	}
	return binary.BigEndian.Uint16(s)
}

func (b *Buffer) ReadU4() uint32 {
	s := b.take(4)
	if s == nil {
		return 0
	}
	return binary.BigEndian.Uint32(s)
}

func (b *Buffer) ReadU8() uint64 {
	s := b.take(8)
	if s == nil {
		return 0
	}
	return binary.BigEndian.Uint64(s)
}

// Skip advances the cursor over n bytes.
func (b *Buffer) Skip(n int) {
	b.take(n)
}

// Seek moves the cursor to an absolute position within the loaded data.
func (b *Buffer) Seek(pos int) {
	if b.err != nil {
		return
	}
	if pos < 0 || pos > b.size {
		b.err = fmt.Errorf("%w: seek to %d, have %d", ErrUnexpectedEOF, pos, b.size)
		return
	}
	b.pos = pos
}

// ReadUTF reads a length-prefixed string in the JVM modified UTF-8 form:
// a u2 byte count followed by that many bytes, where NUL is the two-byte
// sequence 0xC0 0x80 and code points above U+FFFF appear as a surrogate
// pair of 3-byte sequences instead of a single 4-byte sequence. A standard
// UTF-8 decoder is not substitutable here.
func (b *Buffer) ReadUTF() string {
	n := int(b.ReadU2())
	s := b.take(n)
	if s == nil {
		return ""
	}
	return decodeModifiedUTF8(s)
}

func decodeModifiedUTF8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				runes = append(runes, rune(c))
				i = len(b)
				break
			}
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				runes = append(runes, rune(c))
				i = len(b)
				break
			}
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			// A high surrogate means the next 3-byte sequence holds the low
			// half of a supplementary code point.
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if b[i+3]&0xF0 == 0xE0 && low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+(r-0xD800)<<10+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
