package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores weights raw.
	CompressionNone Compression = 0
	// CompressionLZ4 favors encode and decode speed.
	CompressionLZ4 Compression = 1
	// CompressionZSTD favors ratio.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

const blockHeaderSize = 8

// compressBlock frames data as [uncompressed][compressed][payload]. Data that
// does not shrink below 90% of its size is stored raw with compressed = 0.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: block of %d bytes", ErrTooLarge, len(data))
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

// decompressBlock reverses compressBlock for a block that must decode to
// exactly want bytes. It returns the payload and the number of input bytes
// consumed. Raw blocks alias data.
func decompressBlock(data []byte, c Compression, want int) ([]byte, int, error) {
	if len(data) < blockHeaderSize {
		return nil, 0, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}
	uncompressedSize := uint64(binary.LittleEndian.Uint32(data[0:]))
	compressedSize := uint64(binary.LittleEndian.Uint32(data[4:]))
	if want < 0 || uncompressedSize != uint64(want) {
		return nil, 0, fmt.Errorf("%w: block holds %d bytes, want %d", ErrCorrupt, uncompressedSize, want)
	}
	avail := uint64(len(data) - blockHeaderSize)

	if compressedSize == 0 {
		if avail < uncompressedSize {
			return nil, 0, fmt.Errorf("%w: raw block truncated", ErrCorrupt)
		}
		end := blockHeaderSize + int(uncompressedSize)
		return data[blockHeaderSize:end], end, nil
	}

	if avail < compressedSize {
		return nil, 0, fmt.Errorf("%w: compressed block truncated", ErrCorrupt)
	}
	end := blockHeaderSize + int(compressedSize)
	payload := data[blockHeaderSize:end]
	result := make([]byte, uncompressedSize)

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
		}
		if uint64(n) != uncompressedSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, end, nil

	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, 0, err
		}
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, result[:0])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
		}
		if uint64(len(decoded)) != uncompressedSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, end, nil

	default:
		return nil, 0, fmt.Errorf("%w: compressed block with compression %s", ErrCorrupt, c)
	}
}
