// internal/api/handler/api/content.go
package api

import (
	"net/http"
	"strconv"

	"github.com/newthinker/zeno/internal/api/response"
)

// Resolver resolves article paths to content.
type Resolver interface {
	Content(path string) (contentType string, data []byte, err error)
}

// ContentHandler serves raw article content.
type ContentHandler struct {
	resolver Resolver
}

// NewContentHandler creates a new content handler.
func NewContentHandler(resolver Resolver) *ContentHandler {
	return &ContentHandler{resolver: resolver}
}

// Get writes the article named by the {path...} wildcard. The wildcard
// value is already percent-decoded.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	contentType, data, err := h.resolver.Content("/" + r.PathValue("path"))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(data)
	}
}
