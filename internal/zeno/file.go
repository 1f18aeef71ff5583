// Package zeno reads zeno archives: immutable containers of articles
// grouped into single-character namespaces and addressed either by
// directory offset or by (namespace, url).
package zeno

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/newthinker/zeno/internal/core"
)

// File is an opened archive. It is read-only and safe for concurrent
// use by multiple goroutines.
type File struct {
	r       io.ReaderAt
	closer  io.Closer
	size    int64
	header  Header
	entries []Entry
}

// Open opens the archive stored at path on the local filesystem.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveOpen, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, core.WrapError(core.ErrArchiveOpen, err)
	}
	file, err := NewReader(f, info.Size(), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

// NewReader reads an archive from r, which must hold size bytes. The
// optional closer is invoked by Close.
func NewReader(r io.ReaderAt, size int64, closer io.Closer) (*File, error) {
	file := &File{r: r, closer: closer, size: size}
	if err := file.load(); err != nil {
		return nil, core.WrapError(core.ErrArchiveOpen, err)
	}
	return file, nil
}

func (f *File) load() error {
	buf := make([]byte, HeaderSize)
	if _, err := f.r.ReadAt(buf, 0); err != nil {
		return corrupt("reading header: %v", err)
	}
	if err := f.header.UnmarshalBinary(buf); err != nil {
		return core.WrapError(core.ErrArchiveCorrupt, err)
	}

	h := f.header
	size := uint64(f.size)
	if f.size < HeaderSize || h.DirOffset < HeaderSize || h.DirOffset > size ||
		h.DirLength > size-h.DirOffset {
		return corrupt("directory [%d, +%d) outside archive of %d bytes", h.DirOffset, h.DirLength, f.size)
	}
	dir := make([]byte, h.DirLength)
	if _, err := f.r.ReadAt(dir, int64(h.DirOffset)); err != nil {
		return corrupt("reading directory: %v", err)
	}
	if Sum(dir) != h.DirChecksum {
		return corrupt("directory checksum mismatch")
	}

	entries, err := DecodeDirectory(dir)
	if err != nil {
		return core.WrapError(core.ErrArchiveCorrupt, err)
	}
	if uint32(len(entries)) != h.Count {
		return corrupt("directory holds %d entries, header says %d", len(entries), h.Count)
	}
	for i := range entries {
		e := &entries[i]
		if i > 0 && CompareEntries(&entries[i-1], e) >= 0 {
			return corrupt("directory not sorted at offset %d", i)
		}
		if e.Redirect {
			if e.Target >= h.Count {
				return corrupt("redirect %q targets offset %d of %d", e.URL, e.Target, h.Count)
			}
			continue
		}
		if err := checkPayload(e, h.DirOffset); err != nil {
			return err
		}
	}
	f.entries = entries
	return nil
}

// checkPayload verifies that e's stored bytes lie inside the data region
// and that its declared size is plausible for its compression.
func checkPayload(e *Entry, dataEnd uint64) error {
	if e.DataOffset < HeaderSize || e.DataOffset > dataEnd || e.CompressedSize > dataEnd-e.DataOffset {
		return corrupt("payload of %q outside data region", e.URL)
	}
	if e.Size > MaxPayloadSize {
		return corrupt("payload of %q declares %d bytes, limit is %d", e.URL, e.Size, MaxPayloadSize)
	}
	switch e.Compression {
	case CompressionNone:
		if e.Size != e.CompressedSize {
			return corrupt("stored payload of %q is %d bytes, declares %d", e.URL, e.CompressedSize, e.Size)
		}
	case CompressionLZ4:
		if e.Size > maxLZ4Size(e.CompressedSize) {
			return corrupt("lz4 payload of %q cannot expand %d bytes to %d", e.URL, e.CompressedSize, e.Size)
		}
	case CompressionZstd:
	default:
		return corrupt("payload of %q has unsupported compression %s", e.URL, e.Compression)
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return core.WrapError(core.ErrArchiveCorrupt, fmt.Errorf(format, args...))
}

// Close releases the underlying reader.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Count returns the number of directory entries.
func (f *File) Count() int {
	return len(f.entries)
}

// Size returns the archive size in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Namespaces lists the namespaces present in the archive, in order.
func (f *File) Namespaces() []core.Namespace {
	var out []core.Namespace
	for i := range f.entries {
		ns := core.Namespace(f.entries[i].Namespace)
		if len(out) == 0 || out[len(out)-1] != ns {
			out = append(out, ns)
		}
	}
	return out
}

// NamespaceBeginOffset returns the offset of the first entry in ns.
func (f *File) NamespaceBeginOffset(ns core.Namespace) (core.Offset, error) {
	i := sort.Search(len(f.entries), func(i int) bool {
		return f.entries[i].Namespace >= byte(ns)
	})
	if i == len(f.entries) || f.entries[i].Namespace != byte(ns) {
		return 0, core.WrapError(core.ErrNamespaceNotFound, fmt.Errorf("namespace %q", ns.String()))
	}
	return core.Offset(i), nil
}

// NamespaceEndOffset returns the offset of the last entry in ns. The
// namespace range is inclusive on both ends.
func (f *File) NamespaceEndOffset(ns core.Namespace) (core.Offset, error) {
	i := sort.Search(len(f.entries), func(i int) bool {
		return f.entries[i].Namespace > byte(ns)
	})
	if i == 0 || f.entries[i-1].Namespace != byte(ns) {
		return 0, core.WrapError(core.ErrNamespaceNotFound, fmt.Errorf("namespace %q", ns.String()))
	}
	return core.Offset(i - 1), nil
}

// ArticleAt returns the article stored at offset.
func (f *File) ArticleAt(offset core.Offset) (*core.Article, error) {
	if int(offset) >= len(f.entries) {
		return nil, core.WrapError(core.ErrOffsetOutOfRange,
			fmt.Errorf("offset %d of %d", offset, len(f.entries)))
	}
	return f.article(offset)
}

// ArticleByKey looks an article up by namespace and exact url.
func (f *File) ArticleByKey(ns core.Namespace, url string) (*core.Article, error) {
	key := Entry{Namespace: byte(ns), URL: url}
	i := sort.Search(len(f.entries), func(i int) bool {
		return CompareEntries(&f.entries[i], &key) >= 0
	})
	if i == len(f.entries) || CompareEntries(&f.entries[i], &key) != 0 {
		return nil, core.WrapError(core.ErrArticleNotFound, fmt.Errorf("/%s/%s", ns.String(), url))
	}
	return f.article(core.Offset(i))
}

// RedirectTarget returns the article a redirect points at. It fails
// for articles that are not redirects.
func (f *File) RedirectTarget(a *core.Article) (*core.Article, error) {
	if !a.Redirect {
		return nil, fmt.Errorf("%s is not a redirect", a.Path())
	}
	return f.ArticleAt(a.RedirectOffset)
}

func (f *File) article(offset core.Offset) (*core.Article, error) {
	e := &f.entries[offset]
	a := &core.Article{
		Offset:    offset,
		Namespace: core.Namespace(e.Namespace),
		URL:       e.URL,
		MimeType:  e.MimeType,
	}
	if e.Redirect {
		a.Redirect = true
		a.RedirectOffset = core.Offset(e.Target)
		return a, nil
	}

	data, err := f.payload(e)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a.Path(), err)
	}
	a.Data = data
	return a, nil
}

func (f *File) payload(e *Entry) ([]byte, error) {
	stored := make([]byte, e.CompressedSize)
	n, err := f.r.ReadAt(stored, int64(e.DataOffset))
	if err != nil && !(errors.Is(err, io.EOF) && n == len(stored)) {
		return nil, err
	}
	data, err := Decompress(stored, e.Compression, int(e.Size))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveCorrupt, err)
	}
	if Sum(data) != e.Checksum {
		return nil, corrupt("payload checksum mismatch")
	}
	return data, nil
}
