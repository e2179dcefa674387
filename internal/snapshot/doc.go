// Package snapshot implements the binary format for trained prototype grids.
//
// Layout (little-endian):
//
//	magic        [4]byte "PSOM"
//	version      uint8
//	compression  uint8
//	codecLen     uint8
//	codec        [codecLen]byte
//	headerLen    uint32
//	header       [headerLen]byte  codec-encoded Meta
//	block        [uncompressed uint32][compressed uint32][data]
//	checksum     uint32           CRC32 (IEEE) of everything above
//
// The block holds X*Y*C float64 weights in neuron-major order. A block whose
// compressed size is 0 is stored raw.
package snapshot
