// Package catalog reads and writes the fixed-size binary star catalog.
//
// The catalog is a headerless little-endian sequence of StarCount records.
// Each record is six IEEE-754 float32 values: position x, y, z followed by
// color r, g, b.
package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-starfield/internal/geom"
)

const (
	// StarCount is the number of records in a full catalog.
	StarCount = 9110

	// RecordSize is the encoded size of one record in bytes.
	RecordSize = 6 * 4

	// Size is the encoded size of a full catalog in bytes.
	Size = StarCount * RecordSize
)

// ErrShortBuffer is returned when fewer bytes remain than a record needs.
var ErrShortBuffer = errors.New("catalog: short buffer")

// Record is one decoded catalog entry in catalog space.
type Record struct {
	Position geom.Vec3
	Color    geom.Vec3
}

// DecodeRecord decodes the record at the start of b.
func DecodeRecord(b []byte) (Record, error) {
	if len(b) < RecordSize {
		return Record{}, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, RecordSize, len(b))
	}
	return Record{
		Position: geom.Vec3{X: float32At(b, 0), Y: float32At(b, 1), Z: float32At(b, 2)},
		Color:    geom.Vec3{X: float32At(b, 3), Y: float32At(b, 4), Z: float32At(b, 5)},
	}, nil
}

// AppendRecord appends the encoding of r to b.
func AppendRecord(b []byte, r Record) []byte {
	for _, v := range [6]float32{
		r.Position.X, r.Position.Y, r.Position.Z,
		r.Color.X, r.Color.Y, r.Color.Z,
	} {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// Encode returns the binary encoding of records.
func Encode(records []Record) []byte {
	b := make([]byte, 0, len(records)*RecordSize)
	for _, r := range records {
		b = AppendRecord(b, r)
	}
	return b
}

func float32At(b []byte, field int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[field*4:]))
}

// Reader decodes records sequentially from an in-memory catalog.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over buf. The buffer is not copied.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Next decodes the next record. It returns ErrShortBuffer once fewer than
// RecordSize bytes remain.
func (r *Reader) Next() (Record, error) {
	rec, err := DecodeRecord(r.buf[r.off:])
	if err != nil {
		return Record{}, err
	}
	r.off += RecordSize
	return rec, nil
}

// Remaining returns the number of whole records left.
func (r *Reader) Remaining() int {
	return (len(r.buf) - r.off) / RecordSize
}
