package zeno

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Container layout constants. Changing any of them breaks existing
// archives.
const (
	Magic      = "ZENO"
	Version    = 1
	HeaderSize = 64

	// Extension is the file name suffix of stored archives.
	Extension = ".zeno"
)

// Header is the fixed-size block at the start of every archive.
type Header struct {
	Version     uint16
	Count       uint32
	DirOffset   uint64
	DirLength   uint64
	DirChecksum Checksum
}

// MarshalBinary encodes the header into its HeaderSize-byte form.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.Count)
	binary.LittleEndian.PutUint64(buf[16:24], h.DirOffset)
	binary.LittleEndian.PutUint64(buf[24:32], h.DirLength)
	copy(buf[32:64], h.DirChecksum[:])
	return buf, nil
}

// UnmarshalBinary decodes and validates a header.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("header: need %d bytes, got %d", HeaderSize, len(buf))
	}
	if !bytes.Equal(buf[0:4], []byte(Magic)) {
		return fmt.Errorf("header: bad magic %q", buf[0:4])
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:6])
	if h.Version != Version {
		return fmt.Errorf("header: unsupported version %d", h.Version)
	}
	h.Count = binary.LittleEndian.Uint32(buf[8:12])
	h.DirOffset = binary.LittleEndian.Uint64(buf[16:24])
	h.DirLength = binary.LittleEndian.Uint64(buf[24:32])
	copy(h.DirChecksum[:], buf[32:64])
	return nil
}
