package zeno

import (
	"cmp"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Entry is one directory record. Directories are stored as a
// zstd-compressed CBOR array of entries sorted by (Namespace, URL).
type Entry struct {
	Namespace byte   `cbor:"ns"`
	URL       string `cbor:"url"`
	MimeType  string `cbor:"mime,omitempty"`

	Redirect bool   `cbor:"redirect,omitempty"`
	Target   uint32 `cbor:"target,omitempty"`

	// Payload location, relative to the start of the archive.
	DataOffset     uint64      `cbor:"off,omitempty"`
	CompressedSize uint64      `cbor:"clen,omitempty"`
	Size           uint64      `cbor:"size,omitempty"`
	Compression    Compression `cbor:"comp,omitempty"`
	Checksum       Checksum    `cbor:"sum"`
}

// CompareEntries orders entries the way the directory stores them.
func CompareEntries(a, b *Entry) int {
	if c := cmp.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}
	return cmp.Compare(a.URL, b.URL)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("zeno: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("zeno: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeDirectory serializes and compresses a sorted entry list.
func EncodeDirectory(entries []Entry) ([]byte, error) {
	raw, err := encMode.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding directory: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

// DecodeDirectory reverses EncodeDirectory.
func DecodeDirectory(data []byte) ([]Entry, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing directory: %w", err)
	}
	var entries []Entry
	if err := decMode.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding directory: %w", err)
	}
	return entries, nil
}
