// internal/api/handler/api/archives.go
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/newthinker/zeno/internal/api/response"
	"github.com/newthinker/zeno/internal/core"
	"github.com/newthinker/zeno/internal/zeno"
)

// Lister enumerates stored objects.
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// ArchivesHandler lists the archives available to load.
type ArchivesHandler struct {
	lister Lister
}

// NewArchivesHandler creates a new archives handler.
func NewArchivesHandler(lister Lister) *ArchivesHandler {
	return &ArchivesHandler{lister: lister}
}

// ArchivesResponse lists loadable archive paths.
type ArchivesResponse struct {
	Archives []string `json:"archives"`
	Count    int      `json:"count"`
}

// List returns the archives under the optional prefix query parameter.
func (h *ArchivesHandler) List(w http.ResponseWriter, r *http.Request) {
	paths, err := ListArchives(r.Context(), h.lister, r.URL.Query().Get("prefix"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrBadRequest, err))
		return
	}
	response.JSON(w, http.StatusOK, ArchivesResponse{Archives: paths, Count: len(paths)})
}

// ListArchives returns the stored paths under prefix that carry the
// archive extension.
func ListArchives(ctx context.Context, lister Lister, prefix string) ([]string, error) {
	paths, err := lister.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	archives := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.HasSuffix(p, zeno.Extension) {
			archives = append(archives, p)
		}
	}
	return archives, nil
}
