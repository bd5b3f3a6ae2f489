package api

import (
	"net/http"

	"github.com/okian/rankvote/internal/domain/tally"
)

type methodInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

type methodsResponse struct {
	Methods []methodInfo `json:"methods"`
	Default []string     `json:"default"`
}

// MethodsHandler lists the counting methods.
type MethodsHandler struct {
	deps Dependencies
}

// NewMethodsHandler creates a new methods handler.
func NewMethodsHandler(deps Dependencies) *MethodsHandler {
	return &MethodsHandler{deps: deps}
}

// HandleGetMethods handles GET /methods requests.
func (h *MethodsHandler) HandleGetMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var resp methodsResponse
	for _, m := range tally.Methods() {
		resp.Methods = append(resp.Methods, methodInfo{Name: m.String(), Title: m.Title()})
	}
	for _, m := range h.deps.DefaultMethods() {
		resp.Default = append(resp.Default, m.String())
	}
	writeJSON(w, http.StatusOK, resp)
}
