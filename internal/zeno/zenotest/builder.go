// Package zenotest builds zeno archives for tests.
package zenotest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/newthinker/zeno/internal/core"
	"github.com/newthinker/zeno/internal/zeno"
)

type item struct {
	entry      zeno.Entry
	data       []byte
	redirectNS core.Namespace
	redirectTo string
}

// Builder accumulates articles and serializes them into an archive.
type Builder struct {
	items       []item
	compression zeno.Compression
}

// NewBuilder returns a builder that stores payloads uncompressed.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithCompression sets the compression used for subsequently added
// articles.
func (b *Builder) WithCompression(c zeno.Compression) *Builder {
	b.compression = c
	return b
}

// Add adds a content article.
func (b *Builder) Add(ns core.Namespace, url, mimeType string, data []byte) *Builder {
	b.items = append(b.items, item{
		entry: zeno.Entry{
			Namespace:   byte(ns),
			URL:         url,
			MimeType:    mimeType,
			Compression: b.compression,
		},
		data: data,
	})
	return b
}

// AddRedirect adds a redirect from (ns, url) to (targetNS, targetURL).
func (b *Builder) AddRedirect(ns core.Namespace, url string, targetNS core.Namespace, targetURL string) *Builder {
	b.items = append(b.items, item{
		entry: zeno.Entry{
			Namespace: byte(ns),
			URL:       url,
			Redirect:  true,
		},
		redirectNS: targetNS,
		redirectTo: targetURL,
	})
	return b
}

// Bytes serializes the archive.
func (b *Builder) Bytes() ([]byte, error) {
	items := slices.Clone(b.items)
	slices.SortStableFunc(items, func(x, y item) int {
		return zeno.CompareEntries(&x.entry, &y.entry)
	})

	offsets := make(map[string]uint32, len(items))
	for i, it := range items {
		key := core.Namespace(it.entry.Namespace).String() + "/" + it.entry.URL
		if _, dup := offsets[key]; dup {
			return nil, fmt.Errorf("duplicate article %s", key)
		}
		offsets[key] = uint32(i)
	}

	var body bytes.Buffer
	entries := make([]zeno.Entry, len(items))
	for i, it := range items {
		e := it.entry
		if e.Redirect {
			target, ok := offsets[it.redirectNS.String()+"/"+it.redirectTo]
			if !ok {
				return nil, fmt.Errorf("redirect %s targets missing /%s/%s", e.URL, it.redirectNS, it.redirectTo)
			}
			e.Target = target
			entries[i] = e
			continue
		}

		stored, used, err := zeno.Compress(it.data, e.Compression)
		if err != nil {
			return nil, err
		}
		e.Compression = used
		e.DataOffset = uint64(zeno.HeaderSize + body.Len())
		e.CompressedSize = uint64(len(stored))
		e.Size = uint64(len(it.data))
		e.Checksum = zeno.Sum(it.data)
		body.Write(stored)
		entries[i] = e
	}

	dir, err := zeno.EncodeDirectory(entries)
	if err != nil {
		return nil, err
	}
	header, err := zeno.Header{
		Version:     zeno.Version,
		Count:       uint32(len(entries)),
		DirOffset:   uint64(zeno.HeaderSize + body.Len()),
		DirLength:   uint64(len(dir)),
		DirChecksum: zeno.Sum(dir),
	}.MarshalBinary()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(header)+body.Len()+len(dir))
	out = append(out, header...)
	out = append(out, body.Bytes()...)
	out = append(out, dir...)
	return out, nil
}

// WriteFile writes the archive into a temporary directory owned by t
// and returns its path.
func (b *Builder) WriteFile(t testing.TB, name string) string {
	t.Helper()
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("building archive: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	return path
}
