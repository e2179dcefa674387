package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/arklab/pixelsom/codec"
	"github.com/arklab/pixelsom/internal/conv"
	"github.com/arklab/pixelsom/internal/som"
)

// Version is the current format version.
const Version uint8 = 1

var magic = [4]byte{'P', 'S', 'O', 'M'}

var (
	// ErrCorrupt is returned when snapshot bytes fail validation.
	ErrCorrupt = errors.New("snapshot: corrupt data")
	// ErrUnsupportedVersion is returned for a format version this package cannot read.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrUnknownCodec is returned when the recorded codec is not built in.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
	// ErrUnknownCompression is returned for an unrecognized compression byte.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	// ErrTooLarge is returned when a section exceeds its length field.
	ErrTooLarge = errors.New("snapshot: section too large")
	// ErrInvalidGrid is returned when asked to encode a malformed grid.
	ErrInvalidGrid = errors.New("snapshot: invalid grid")
)

// Meta is the codec-encoded header. X, Y and C always describe the stored
// grid; the remaining fields record how it was trained.
type Meta struct {
	X            int     `json:"x"`
	Y            int     `json:"y"`
	C            int     `json:"c"`
	Passes       int     `json:"passes"`
	Sigma        float64 `json:"sigma"`
	LearningRate float64 `json:"learning_rate"`
	Seed         int64   `json:"seed"`
	Samples      int     `json:"samples"`
}

// Options control encoding. The zero value writes an uncompressed snapshot
// with codec.Default.
type Options struct {
	Compression Compression
	Codec       codec.Codec
}

// Encode serializes g and meta. meta's dimensions are taken from g.
func Encode(g *som.Grid, meta Meta, opts Options) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	n, err := conv.MulInt(g.X, g.Y, g.C)
	if err != nil || g.X < 1 || g.Y < 1 || g.C < 1 || len(g.Weights) != n {
		return nil, fmt.Errorf("%w: %dx%dx%d with %d weights", ErrInvalidGrid, g.X, g.Y, g.C, len(g.Weights))
	}
	if !opts.Compression.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, opts.Compression)
	}
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) == 0 || len(name) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: codec name %q", ErrUnknownCodec, name)
	}

	meta.X, meta.Y, meta.C = g.X, g.Y, g.C
	header, err := c.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode header: %w", err)
	}
	headerLen, err := conv.IntToUint32(len(header))
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTooLarge, err)
	}

	raw := make([]byte, 8*len(g.Weights))
	for i, w := range g.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: non-finite weight at %d", ErrInvalidGrid, i)
		}
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(w))
	}
	block, err := compressBlock(raw, opts.Compression)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(magic)+3+len(name)+4+len(header)+len(block)+checksumSize)
	out = append(out, magic[:]...)
	out = append(out, Version, byte(opts.Compression), byte(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, headerLen)
	out = append(out, header...)
	out = append(out, block...)
	return seal(out), nil
}

// Decode parses a snapshot produced by Encode. The returned grid never
// aliases data, so data may be unmapped once Decode returns.
func Decode(data []byte) (*som.Grid, Meta, error) {
	var meta Meta

	r := reader{buf: data}
	m, ok := r.next(len(magic))
	if !ok || [4]byte(m) != magic {
		return nil, meta, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	fixed, ok := r.next(3)
	if !ok {
		return nil, meta, fmt.Errorf("%w: truncated preamble", ErrCorrupt)
	}
	if fixed[0] != Version {
		return nil, meta, fmt.Errorf("%w: %d", ErrUnsupportedVersion, fixed[0])
	}
	comp := Compression(fixed[1])
	if !comp.valid() {
		return nil, meta, fmt.Errorf("%w: %d", ErrUnknownCompression, fixed[1])
	}
	name, ok := r.next(int(fixed[2]))
	if !ok {
		return nil, meta, fmt.Errorf("%w: truncated codec name", ErrCorrupt)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, meta, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	body, err := unseal(data)
	if err != nil {
		return nil, meta, err
	}
	if len(body) < r.off {
		return nil, meta, fmt.Errorf("%w: truncated preamble", ErrCorrupt)
	}
	r.buf = body

	lenBytes, ok := r.next(4)
	if !ok {
		return nil, meta, fmt.Errorf("%w: truncated header length", ErrCorrupt)
	}
	headerLen, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(lenBytes))
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	header, ok := r.next(headerLen)
	if !ok {
		return nil, meta, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if err := c.Unmarshal(header, &meta); err != nil {
		return nil, meta, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if meta.X < 1 || meta.Y < 1 || meta.C < 1 {
		return nil, meta, fmt.Errorf("%w: dimensions %dx%dx%d", ErrCorrupt, meta.X, meta.Y, meta.C)
	}
	size, err := conv.MulInt(meta.X, meta.Y, meta.C, 8)
	if err != nil || uint64(size) > math.MaxUint32 {
		return nil, meta, fmt.Errorf("%w: dimensions %dx%dx%d", ErrCorrupt, meta.X, meta.Y, meta.C)
	}

	raw, consumed, err := decompressBlock(r.rest(), comp, size)
	if err != nil {
		return nil, meta, err
	}
	if consumed != len(r.rest()) {
		return nil, meta, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(r.rest())-consumed)
	}

	g := som.NewGrid(meta.X, meta.Y, meta.C)
	for i := range g.Weights {
		w := math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, meta, fmt.Errorf("%w: non-finite weight at %d", ErrCorrupt, i)
		}
		g.Weights[i] = w
	}
	return g, meta, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) next(n int) ([]byte, bool) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, false
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, true
}

func (r *reader) rest() []byte {
	return r.buf[r.off:]
}
