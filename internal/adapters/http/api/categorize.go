package api

import (
	"net/http"

	"github.com/okian/huddle/internal/domain/taxonomy"
)

// CategorizeHandler handles category inference requests.
type CategorizeHandler struct {
	deps Dependencies
}

// NewCategorizeHandler creates a new categorize handler.
func NewCategorizeHandler(deps Dependencies) *CategorizeHandler {
	return &CategorizeHandler{deps: deps}
}

type categorizeRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
}

// HandleCategorize handles POST /categorize requests.
func (h *CategorizeHandler) HandleCategorize(w http.ResponseWriter, r *http.Request) {
	const op = "api.categorize"
	var req categorizeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Categorize(r.Context(), req.Title, req.Description, req.Tags))
}

// HandleListCategories handles GET /categories requests.
func (h *CategorizeHandler) HandleListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": taxonomy.Names(), "count": taxonomy.Len()})
}
