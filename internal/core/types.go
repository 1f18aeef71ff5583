package core

import "fmt"

// Offset is the ordinal position of an entry in an archive directory.
// Entries are sorted by namespace, then URL, so the entries of one
// namespace occupy a contiguous offset range.
type Offset uint32

// Namespace is the single-character partition an entry belongs to.
type Namespace byte

const (
	// NamespaceArticles holds the readable articles of an archive.
	NamespaceArticles Namespace = 'A'
	// NamespaceLegacyArticles is the article namespace of older archives.
	NamespaceLegacyArticles Namespace = '0'
	// NamespaceMetadata holds archive metadata entries.
	NamespaceMetadata Namespace = 'M'
)

// String returns the namespace as a one-character string.
func (n Namespace) String() string {
	return string(rune(n))
}

// ParseNamespace converts a configured namespace name into a Namespace.
// Only the first byte is significant.
func ParseNamespace(s string) (Namespace, error) {
	if s == "" {
		return 0, fmt.Errorf("empty namespace")
	}
	return Namespace(s[0]), nil
}

// Article is an immutable snapshot of one archive entry.
type Article struct {
	Offset    Offset
	Namespace Namespace
	URL       string
	MimeType  string

	// Redirect articles carry no data; RedirectOffset names their target.
	Redirect       bool
	RedirectOffset Offset

	Data []byte
}

// Len returns the exact content length in bytes.
func (a *Article) Len() int {
	return len(a.Data)
}

// Path returns the article address in "/<namespace>/<url>" form.
func (a *Article) Path() string {
	return "/" + a.Namespace.String() + "/" + a.URL
}

// IsValid checks if the article has required fields
func (a *Article) IsValid() bool {
	return a.Namespace != 0 && a.URL != ""
}
