package handler

import (
	"net/http"
	"strings"
	"time"

	treedomain "family-tree-go/internal/domain/tree"
	"github.com/go-chi/chi/v5"
)

type createTreeRequest struct {
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateTreeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type treeResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type treeListResponse struct {
	Items []treeResponse `json:"items"`
	Total int            `json:"total"`
}

func toTreeResponse(t *treedomain.FamilyTree) treeResponse {
	return treeResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *Handlers) CreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_id is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	t, err := h.Trees.Create(r.Context(), treedomain.CreateInput{
		OwnerID:     strings.TrimSpace(req.OwnerID),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeDomainError(w, "trees.create", err, "owner_id", req.OwnerID)
		return
	}
	writeJSON(w, http.StatusCreated, toTreeResponse(t))
}

func (h *Handlers) GetTree(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "tree_id")
	t, err := h.Trees.Get(r.Context(), treeID)
	if err != nil {
		h.writeDomainError(w, "trees.get", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, toTreeResponse(t))
}

func (h *Handlers) ListTrees(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_id is required")
		return
	}

	trees, err := h.Trees.ListByOwner(r.Context(), ownerID)
	if err != nil {
		h.writeDomainError(w, "trees.list", err, "owner_id", ownerID)
		return
	}

	items := make([]treeResponse, 0, len(trees))
	for i := range trees {
		items = append(items, toTreeResponse(&trees[i]))
	}
	writeJSON(w, http.StatusOK, treeListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) UpdateTree(w http.ResponseWriter, r *http.Request) {
	var req updateTreeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	treeID := chi.URLParam(r, "tree_id")
	t, err := h.Trees.Update(r.Context(), treeID, treedomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeDomainError(w, "trees.update", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, toTreeResponse(t))
}

func (h *Handlers) DeleteTree(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "tree_id")
	if err := h.Trees.Delete(r.Context(), treeID); err != nil {
		h.writeDomainError(w, "trees.delete", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "family tree deleted"})
}
