package snapshot

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// checksumSize is the length of the CRC32 trailer.
const checksumSize = 4

// ChecksumMismatchError is returned when the snapshot trailer does not match
// its contents. CRC32 detects accidental corruption only, not tampering.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("snapshot: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Is makes a checksum mismatch match ErrCorrupt.
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrCorrupt
}

// seal appends the CRC32 (IEEE) of body.
func seal(body []byte) []byte {
	return binary.LittleEndian.AppendUint32(body, crc32.ChecksumIEEE(body))
}

// unseal verifies the trailer of data and returns the body before it.
func unseal(data []byte) ([]byte, error) {
	if len(data) < checksumSize {
		return nil, fmt.Errorf("%w: missing checksum", ErrCorrupt)
	}
	body := data[:len(data)-checksumSize]
	want := binary.LittleEndian.Uint32(data[len(body):])
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, &ChecksumMismatchError{Expected: want, Actual: got}
	}
	return body, nil
}
