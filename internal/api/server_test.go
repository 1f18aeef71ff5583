// internal/api/server_test.go
package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newthinker/zeno/internal/accessor"
	"github.com/newthinker/zeno/internal/core"
	"github.com/newthinker/zeno/internal/metrics"
	"github.com/newthinker/zeno/internal/storage/archive"
	"github.com/newthinker/zeno/internal/zeno/zenotest"
	"go.uber.org/zap"
)

func boundAccessor(t *testing.T) *accessor.Accessor {
	t.Helper()
	path := zenotest.NewBuilder().
		Add(core.NamespaceArticles, "Home", "text/html", []byte("<h1>home</h1>")).
		AddRedirect(core.NamespaceArticles, "Main_Page", core.NamespaceArticles, "Home").
		WriteFile(t, "server.zeno")

	a := accessor.New(accessor.DefaultConfig())
	if err := a.Bind(t.Context(), path); err != nil {
		t.Fatalf("binding archive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.Host = "localhost"
	srv, err := NewServer(cfg, Dependencies{
		Accessor: boundAccessor(t),
		Metrics:  metrics.NewRegistry(),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestServer_RequiresAccessor(t *testing.T) {
	_, err := NewServer(Config{}, Dependencies{}, zap.NewNop())
	if err == nil {
		t.Error("expected error without accessor")
	}
}

func TestServer_APIAuth_Required(t *testing.T) {
	srv := newTestServer(t, Config{APIKey: "test-key"})

	// Without API key
	req := httptest.NewRequest("GET", "/api/v1/archive", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}
}

func TestServer_APIAuth_ValidKey(t *testing.T) {
	srv := newTestServer(t, Config{APIKey: "test-key"})

	// With API key
	req := httptest.NewRequest("GET", "/api/v1/archive", nil)
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", w.Code)
	}
}

func TestServer_APIAuth_Disabled(t *testing.T) {
	// Empty APIKey = disabled auth
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("GET", "/api/v1/articles/next", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with disabled auth, got %d", w.Code)
	}
}

func TestServer_ContentIsPublic(t *testing.T) {
	srv := newTestServer(t, Config{APIKey: "test-key"})

	req := httptest.NewRequest("GET", "/content/A/Main_Page", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "<h1>home</h1>" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestServer_ContentEscapedPath(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("GET", "/content/A/Ho%6De", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestServer_ContentHead(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("HEAD", "/content/A/Home", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD, got %d bytes", w.Body.Len())
	}
	if w.Header().Get("Content-Length") != "13" {
		t.Errorf("expected Content-Length 13, got %s", w.Header().Get("Content-Length"))
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("DELETE", "/api/v1/archive", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, Config{MetricsEnabled: true, MetricsPath: "/metrics"})

	req := httptest.NewRequest("GET", "/api/health", nil)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `path="GET /api/health"`) {
		t.Error("expected request to be labelled with its route pattern")
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	srv := newTestServer(t, Config{MetricsPath: "/metrics"})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestServer_ArchivesListing(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(Config{APIKey: "test-key"}, Dependencies{
		Accessor: boundAccessor(t),
		Storage:  store,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/archives", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/archives", nil)
	req.Header.Set("X-API-Key", "test-key")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", w.Code)
	}
}

func TestServer_ArchivesListingNeedsStorage(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("GET", "/api/v1/archives", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without storage, got %d", w.Code)
	}
}
