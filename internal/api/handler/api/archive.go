// internal/api/handler/api/archive.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/newthinker/zeno/internal/accessor"
	"github.com/newthinker/zeno/internal/api/response"
	"github.com/newthinker/zeno/internal/core"
)

// Binder loads archives and reports the current binding.
type Binder interface {
	Bind(ctx context.Context, path string) error
	Status() accessor.Status
}

// ArchiveHandler handles archive loading requests.
type ArchiveHandler struct {
	binder Binder
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(binder Binder) *ArchiveHandler {
	return &ArchiveHandler{binder: binder}
}

// LoadRequest is the body of a load request.
type LoadRequest struct {
	Path string `json:"path"`
}

// LoadResponse reports the outcome of a load request.
type LoadResponse struct {
	Result string `json:"status"`
	accessor.Status
}

// Load binds the archive named in the request body.
func (h *ArchiveHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrBadRequest, err))
		return
	}
	if req.Path == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrBadRequest, fmt.Errorf("path is required")))
		return
	}

	if err := h.binder.Bind(r.Context(), req.Path); err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, LoadResponse{
		Result: "loaded",
		Status: h.binder.Status(),
	})
}

// Get returns the current binding.
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.binder.Status())
}
