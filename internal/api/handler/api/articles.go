// internal/api/handler/api/articles.go
package api

import (
	"net/http"

	"github.com/newthinker/zeno/internal/api/response"
)

// Enumerator steps through the articles of a namespace.
type Enumerator interface {
	Reset() bool
	NextArticle() (url string, content []byte, hasMore bool, err error)
}

// ArticlesHandler handles enumeration requests.
type ArticlesHandler struct {
	enum Enumerator
}

// NewArticlesHandler creates a new articles handler.
func NewArticlesHandler(enum Enumerator) *ArticlesHandler {
	return &ArticlesHandler{enum: enum}
}

// NextResponse carries one enumerated article. Content is base64 in JSON.
type NextResponse struct {
	URL     string `json:"url"`
	Content []byte `json:"content"`
	HasMore bool   `json:"has_more"`
}

// Next returns the article under the cursor and advances it.
func (h *ArticlesHandler) Next(w http.ResponseWriter, r *http.Request) {
	url, content, more, err := h.enum.NextArticle()
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, NextResponse{URL: url, Content: content, HasMore: more})
}

// Reset rewinds the cursor.
func (h *ArticlesHandler) Reset(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]bool{"reset": h.enum.Reset()})
}
