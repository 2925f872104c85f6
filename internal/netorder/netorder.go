// Package netorder implements the fixed-width big-endian read/write
// helpers used by the projection and image native file formats, along
// with little-endian "reverse" counterparts for reading files written
// by a reverse-order host.
//
// Go has no notion of "the host's native byte order" the way the
// original C++ streams did (WORDS_BIGENDIAN conditional compilation) —
// encoding/binary's ByteOrder values already express "always write
// this order, regardless of host," so the swap-on-little-endian-host
// logic collapses to a direct choice between BigEndian and
// LittleEndian.
package netorder

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer writes the projection/image native file primitives in
// big-endian ("network") order.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w for big-endian writes.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error encountered by any Write call.
func (nw *Writer) Err() error { return nw.err }

func (nw *Writer) write(buf []byte) {
	if nw.err != nil {
		return
	}
	_, nw.err = nw.w.Write(buf)
}

// WriteU16 writes n as a big-endian uint16.
func (nw *Writer) WriteU16(n uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], n)
	nw.write(buf[:])
}

// WriteU32 writes n as a big-endian uint32.
func (nw *Writer) WriteU32(n uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	nw.write(buf[:])
}

// WriteF32 writes f as a big-endian IEEE-754 float32.
func (nw *Writer) WriteF32(f float32) {
	nw.WriteU32(math.Float32bits(f))
}

// WriteF64 writes f as a big-endian IEEE-754 float64.
func (nw *Writer) WriteF64(f float64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	nw.write(buf[:])
}

// WriteBytes writes raw bytes verbatim (used for fixed-size remark /
// label fields).
func (nw *Writer) WriteBytes(b []byte) { nw.write(b) }

// Reader reads the projection/image native file primitives in
// big-endian ("network") order.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader wraps r for big-endian reads.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// Err returns the first error encountered by any Read call.
func (nr *Reader) Err() error { return nr.err }

func (nr *Reader) read(buf []byte) {
	if nr.err != nil {
		return
	}
	_, err := io.ReadFull(nr.r, buf)
	if err != nil {
		nr.err = fmt.Errorf("netorder: %w", err)
	}
}

// ReadU16 reads a big-endian uint16.
func (nr *Reader) ReadU16() uint16 {
	var buf [2]byte
	nr.read(buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

// ReadU32 reads a big-endian uint32.
func (nr *Reader) ReadU32() uint32 {
	var buf [4]byte
	nr.read(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

// ReadF32 reads a big-endian IEEE-754 float32.
func (nr *Reader) ReadF32() float32 {
	return math.Float32frombits(nr.ReadU32())
}

// ReadF64 reads a big-endian IEEE-754 float64.
func (nr *Reader) ReadF64() float64 {
	var buf [8]byte
	nr.read(buf[:])
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:]))
}

// ReadBytes reads exactly len(b) raw bytes into b.
func (nr *Reader) ReadBytes(b []byte) { nr.read(b) }

// ReverseWriter mirrors Writer but in little-endian order, for hosts
// that wrote files in reverse network order.
type ReverseWriter struct {
	w   io.Writer
	err error
}

// NewReverseWriter wraps w for little-endian writes.
func NewReverseWriter(w io.Writer) *ReverseWriter { return &ReverseWriter{w: w} }

// Err returns the first error encountered by any Write call.
func (rw *ReverseWriter) Err() error { return rw.err }

func (rw *ReverseWriter) write(buf []byte) {
	if rw.err != nil {
		return
	}
	_, rw.err = rw.w.Write(buf)
}

// WriteU16 writes n as a little-endian uint16.
func (rw *ReverseWriter) WriteU16(n uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], n)
	rw.write(buf[:])
}

// WriteU32 writes n as a little-endian uint32.
func (rw *ReverseWriter) WriteU32(n uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], n)
	rw.write(buf[:])
}

// WriteF32 writes f as a little-endian IEEE-754 float32.
func (rw *ReverseWriter) WriteF32(f float32) {
	rw.WriteU32(math.Float32bits(f))
}

// WriteF64 writes f as a little-endian IEEE-754 float64.
func (rw *ReverseWriter) WriteF64(f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	rw.write(buf[:])
}

// ReverseReader mirrors Reader but in little-endian order.
type ReverseReader struct {
	r   io.Reader
	err error
}

// NewReverseReader wraps r for little-endian reads.
func NewReverseReader(r io.Reader) *ReverseReader { return &ReverseReader{r: r} }

// Err returns the first error encountered by any Read call.
func (rr *ReverseReader) Err() error { return rr.err }

func (rr *ReverseReader) read(buf []byte) {
	if rr.err != nil {
		return
	}
	_, err := io.ReadFull(rr.r, buf)
	if err != nil {
		rr.err = fmt.Errorf("netorder: %w", err)
	}
}

// ReadU16 reads a little-endian uint16.
func (rr *ReverseReader) ReadU16() uint16 {
	var buf [2]byte
	rr.read(buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

// ReadU32 reads a little-endian uint32.
func (rr *ReverseReader) ReadU32() uint32 {
	var buf [4]byte
	rr.read(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (rr *ReverseReader) ReadF32() float32 {
	return math.Float32frombits(rr.ReadU32())
}

// ReadF64 reads a little-endian IEEE-754 float64.
func (rr *ReverseReader) ReadF64() float64 {
	var buf [8]byte
	rr.read(buf[:])
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
}
