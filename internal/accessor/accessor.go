// Package accessor navigates one namespace of an opened zeno archive:
// ordered enumeration with a restartable cursor, and point lookups that
// follow redirect chains.
package accessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/newthinker/zeno/internal/core"
	"go.uber.org/zap"
)

// DefaultMaxRedirects bounds redirect chains followed by Content.
const DefaultMaxRedirects = 5

// Session is an opened, immutable archive.
type Session interface {
	NamespaceBeginOffset(ns core.Namespace) (core.Offset, error)
	NamespaceEndOffset(ns core.Namespace) (core.Offset, error)
	ArticleAt(offset core.Offset) (*core.Article, error)
	ArticleByKey(ns core.Namespace, url string) (*core.Article, error)
	RedirectTarget(a *core.Article) (*core.Article, error)
	Close() error
}

// Opener opens the archive at path.
type Opener func(ctx context.Context, path string) (Session, error)

// Config controls which namespace is enumerated and how redirects are
// followed.
type Config struct {
	Namespace    core.Namespace
	MaxRedirects int
}

// DefaultConfig enumerates the article namespace and follows up to
// DefaultMaxRedirects redirects.
func DefaultConfig() Config {
	return Config{
		Namespace:    core.NamespaceArticles,
		MaxRedirects: DefaultMaxRedirects,
	}
}

// Status describes the current binding.
type Status struct {
	Bound     bool   `json:"bound"`
	Path      string `json:"path,omitempty"`
	SessionID string `json:"session,omitempty"`
	Namespace string `json:"namespace"`
	First     uint32 `json:"first"`
	Last      uint32 `json:"last"`
	Cursor    uint32 `json:"cursor"`
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithOpener replaces the default local-file opener.
func WithOpener(open Opener) Option {
	return func(a *Accessor) {
		a.open = open
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Accessor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Accessor) {
		if r != nil {
			a.recorder = r
		}
	}
}

// Accessor owns one archive session and the enumeration cursor over a
// single namespace. Enumeration calls are serialized; Content lookups
// run concurrently with each other.
type Accessor struct {
	cfg      Config
	open     Opener
	logger   *zap.Logger
	recorder Recorder

	mu        sync.RWMutex
	session   Session
	sessionID string
	path      string
	first     core.Offset
	last      core.Offset
	current   core.Offset
}

// New creates an unbound Accessor.
func New(cfg Config, opts ...Option) *Accessor {
	if cfg.Namespace == 0 {
		cfg.Namespace = core.NamespaceArticles
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}

	a := &Accessor{
		cfg:      cfg,
		open:     FileOpener,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Bind opens the archive at path and positions the cursor at the first
// entry of the configured namespace. On failure the previous binding,
// if any, is left untouched.
func (a *Accessor) Bind(ctx context.Context, path string) error {
	s, err := a.open(ctx, path)
	if err != nil {
		a.recorder.RecordArchiveLoad("open_failed")
		return classify(core.ErrArchiveOpen, err)
	}

	first, last, err := bounds(s, a.cfg.Namespace)
	if err != nil {
		s.Close()
		a.recorder.RecordArchiveLoad("namespace_not_found")
		return err
	}

	id := uuid.NewString()

	a.mu.Lock()
	old, oldID := a.session, a.sessionID
	a.session = s
	a.sessionID = id
	a.path = path
	a.first, a.last, a.current = first, last, first
	a.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			a.logger.Warn("closing replaced archive", zap.String("session", oldID), zap.Error(err))
		}
	}

	a.recorder.RecordArchiveLoad("ok")
	a.recorder.SetNamespaceEntries(int(last-first) + 1)
	a.logger.Info("archive loaded",
		zap.String("session", id),
		zap.String("path", path),
		zap.String("namespace", a.cfg.Namespace.String()),
		zap.Uint32("first", uint32(first)),
		zap.Uint32("last", uint32(last)),
	)
	return nil
}

func bounds(s Session, ns core.Namespace) (core.Offset, core.Offset, error) {
	first, err := s.NamespaceBeginOffset(ns)
	if err != nil {
		return 0, 0, classify(core.ErrNamespaceNotFound, err)
	}
	last, err := s.NamespaceEndOffset(ns)
	if err != nil {
		return 0, 0, classify(core.ErrNamespaceNotFound, err)
	}
	if last < first {
		return 0, 0, core.WrapError(core.ErrNamespaceNotFound,
			fmt.Errorf("namespace %q has bounds [%d, %d]", ns.String(), first, last))
	}
	return first, last, nil
}

// classify tags err with base unless it already carries that code.
func classify(base *core.Error, err error) error {
	if errors.Is(err, base) {
		return err
	}
	return core.WrapError(base, err)
}

// Close releases the session. Closing an unbound Accessor is a no-op.
func (a *Accessor) Close() error {
	a.mu.Lock()
	s, id := a.session, a.sessionID
	a.session = nil
	a.sessionID = ""
	a.path = ""
	a.first, a.last, a.current = 0, 0, 0
	a.mu.Unlock()

	if s == nil {
		return nil
	}
	a.logger.Info("archive closed", zap.String("session", id))
	return s.Close()
}

// Reset rewinds the cursor to the first entry of the namespace.
func (a *Accessor) Reset() bool {
	a.mu.Lock()
	a.current = a.first
	a.mu.Unlock()
	return true
}

// NextArticle returns the article under the cursor and advances it.
// Redirects are skipped, except at the last offset of the namespace
// where the redirect itself is returned. hasMore is false on the call
// that consumed the last offset; the cursor is then back at the first
// entry and the next call starts a new pass.
func (a *Accessor) NextArticle() (url string, content []byte, hasMore bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return "", nil, false, core.ErrNotBound
	}

	article, err := a.session.ArticleAt(a.current)
	if err != nil {
		return "", nil, false, err
	}
	for article.Redirect && a.current != a.last {
		a.current++
		if article, err = a.session.ArticleAt(a.current); err != nil {
			return "", nil, false, err
		}
	}

	a.recorder.RecordArticleEnumerated()
	if a.current != a.last {
		a.current++
		hasMore = true
	} else {
		a.current = a.first
		a.recorder.RecordEnumerationPass()
	}
	return article.URL, bytes.Clone(article.Data), hasMore, nil
}

// Content resolves path ("/<namespace>/<url>") to the MIME type and
// bytes of the article it names, following at most MaxRedirects
// redirects.
func (a *Accessor) Content(path string) (contentType string, data []byte, err error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.session == nil {
		return "", nil, core.ErrNotBound
	}

	ns, url, err := ParsePath(path)
	if err != nil {
		a.recorder.RecordLookup("not_found", 0)
		return "", nil, err
	}

	article, err := a.session.ArticleByKey(core.Namespace(ns[0]), url)
	if err != nil {
		a.recorder.RecordLookup(lookupStatus(err), 0)
		return "", nil, err
	}

	hops := 0
	for article.Redirect {
		if hops == a.cfg.MaxRedirects {
			a.recorder.RecordLookup("redirect_loop", hops)
			return "", nil, core.WrapError(core.ErrRedirectLoopExceeded,
				fmt.Errorf("%s still redirects after %d hops", path, hops))
		}
		if article, err = a.session.RedirectTarget(article); err != nil {
			a.recorder.RecordLookup(lookupStatus(err), hops)
			return "", nil, err
		}
		hops++
	}

	a.recorder.RecordLookup("ok", hops)
	return article.MimeType, bytes.Clone(article.Data), nil
}

func lookupStatus(err error) string {
	switch {
	case errors.Is(err, core.ErrArticleNotFound):
		return "not_found"
	case errors.Is(err, core.ErrArchiveCorrupt):
		return "corrupt"
	default:
		return "error"
	}
}

// Status reports the current binding and cursor.
func (a *Accessor) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Status{
		Bound:     a.session != nil,
		Path:      a.path,
		SessionID: a.sessionID,
		Namespace: a.cfg.Namespace.String(),
		First:     uint32(a.first),
		Last:      uint32(a.last),
		Cursor:    uint32(a.current),
	}
}

// Bound reports whether an archive is loaded.
func (a *Accessor) Bound() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// Bounds returns the inclusive offset range of the namespace.
func (a *Accessor) Bounds() (first, last core.Offset) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.first, a.last
}

// Cursor returns the offset the next NextArticle call starts from.
func (a *Accessor) Cursor() core.Offset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}
