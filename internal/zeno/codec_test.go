package zeno

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("<p>zeno article body</p>\n"), 200)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			stored, used, err := Compress(data, c)
			require.NoError(t, err)
			assert.Equal(t, c, used)
			if c != CompressionNone {
				assert.Less(t, len(stored), len(data))
			}

			got, err := Decompress(stored, used, len(data))
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCompress_IncompressibleFallsBack(t *testing.T) {
	data := []byte{0x01}

	for _, c := range []Compression{CompressionLZ4, CompressionZstd} {
		stored, used, err := Compress(data, c)
		require.NoError(t, err)
		assert.Equal(t, CompressionNone, used, c.String())
		assert.Equal(t, data, stored)
	}
}

func TestDecompress_SizeMismatch(t *testing.T) {
	_, err := Decompress([]byte("abc"), CompressionNone, 4)
	assert.Error(t, err)

	stored, used, err := Compress(bytes.Repeat([]byte("a"), 1000), CompressionZstd)
	require.NoError(t, err)
	_, err = Decompress(stored, used, 999)
	assert.Error(t, err)
}

func TestHeader_Unmarshal(t *testing.T) {
	h := Header{Version: Version, Count: 3, DirOffset: 100, DirLength: 20, DirChecksum: Sum([]byte("dir"))}
	buf, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, HeaderSize)

	var got Header
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, h, got)

	bad := append([]byte(nil), buf...)
	copy(bad, "ZIM!")
	assert.Error(t, got.UnmarshalBinary(bad))

	assert.Error(t, got.UnmarshalBinary(buf[:10]))

	future := append([]byte(nil), buf...)
	future[4] = 9
	assert.Error(t, got.UnmarshalBinary(future))
}
