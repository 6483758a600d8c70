package handler

import (
	"net/http"
	"strings"
	"time"

	reldomain "family-tree-go/internal/domain/relationship"
	"github.com/go-chi/chi/v5"
)

type relationshipRequest struct {
	FromPersonID         string  `json:"from_person_id"`
	ToPersonID           string  `json:"to_person_id"`
	Category             string  `json:"relationship_category"`
	GenerationDifference *int    `json:"generation_difference"`
	Subtype              string  `json:"relationship_subtype"`
	StartDate            *string `json:"start_date"`
	EndDate              *string `json:"end_date"`
	IsActive             *bool   `json:"is_active"`
	Notes                string  `json:"notes"`
}

type updateRelationshipRequest struct {
	Category             *string `json:"relationship_category"`
	GenerationDifference *int    `json:"generation_difference"`
	Subtype              *string `json:"relationship_subtype"`
	StartDate            *string `json:"start_date"`
	EndDate              *string `json:"end_date"`
	IsActive             *bool   `json:"is_active"`
	Notes                *string `json:"notes"`
}

type relationshipResponse struct {
	ID                   string     `json:"id"`
	FromPersonID         string     `json:"from_person_id"`
	ToPersonID           string     `json:"to_person_id"`
	Category             string     `json:"relationship_category"`
	GenerationDifference *int       `json:"generation_difference,omitempty"`
	Subtype              string     `json:"relationship_subtype,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	IsActive             bool       `json:"is_active"`
	Notes                string     `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type relationshipListResponse struct {
	Items []relationshipResponse `json:"items"`
	Total int                    `json:"total"`
}

type categoriesResponse struct {
	Categories []categoryInfo `json:"categories"`
}

type categoryInfo struct {
	Name            string   `json:"name"`
	Symmetric       bool     `json:"symmetric"`
	NeedsGeneration bool     `json:"requires_generation_difference"`
	Subtypes        []string `json:"subtypes"`
}

type familyLineResponse struct {
	Parents  []personResponse `json:"parents"`
	Children []personResponse `json:"children"`
}

type pathResponse struct {
	Path  []relationshipResponse `json:"path"`
	Found bool                   `json:"relationship_found"`
	Depth int                    `json:"depth"`
}

type proposalsResponse struct {
	Proposals []reldomain.Proposal `json:"proposals"`
	Total     int                  `json:"total"`
}

func toRelationshipResponse(rel *reldomain.Relationship) relationshipResponse {
	return relationshipResponse{
		ID:                   rel.ID,
		FromPersonID:         rel.FromPersonID,
		ToPersonID:           rel.ToPersonID,
		Category:             rel.Category,
		GenerationDifference: rel.GenerationDifference,
		Subtype:              rel.Subtype,
		StartDate:            rel.StartDate,
		EndDate:              rel.EndDate,
		IsActive:             rel.IsActive,
		Notes:                rel.Notes,
		CreatedAt:            rel.CreatedAt,
		UpdatedAt:            rel.UpdatedAt,
	}
}

func toRelationshipListResponse(edges []reldomain.Relationship) relationshipListResponse {
	items := make([]relationshipResponse, 0, len(edges))
	for i := range edges {
		items = append(items, toRelationshipResponse(&edges[i]))
	}
	return relationshipListResponse{Items: items, Total: len(items)}
}

func (req *relationshipRequest) toCandidate() (reldomain.Candidate, error) {
	startDate, err := parseDateField(req.StartDate)
	if err != nil {
		return reldomain.Candidate{}, err
	}
	endDate, err := parseDateField(req.EndDate)
	if err != nil {
		return reldomain.Candidate{}, err
	}
	return reldomain.Candidate{
		FromPersonID:         strings.TrimSpace(req.FromPersonID),
		ToPersonID:           strings.TrimSpace(req.ToPersonID),
		Category:             req.Category,
		GenerationDifference: req.GenerationDifference,
		Subtype:              req.Subtype,
		StartDate:            startDate,
		EndDate:              endDate,
		IsActive:             req.IsActive,
		Notes:                req.Notes,
	}, nil
}

func (h *Handlers) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	candidate, err := req.toCandidate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date field")
		return
	}
	if candidate.FromPersonID == "" || candidate.ToPersonID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "from_person_id and to_person_id are required")
		return
	}

	rel, err := h.Relationships.Create(r.Context(), candidate)
	if err != nil {
		h.writeDomainError(w, "relationships.create", err,
			"from_person_id", candidate.FromPersonID, "to_person_id", candidate.ToPersonID)
		return
	}
	writeJSON(w, http.StatusCreated, toRelationshipResponse(rel))
}

func (h *Handlers) GetRelationship(w http.ResponseWriter, r *http.Request) {
	relationshipID := chi.URLParam(r, "relationship_id")
	rel, err := h.Relationships.Get(r.Context(), relationshipID)
	if err != nil {
		h.writeDomainError(w, "relationships.get", err, "relationship_id", relationshipID)
		return
	}
	writeJSON(w, http.StatusOK, toRelationshipResponse(rel))
}

func (h *Handlers) UpdateRelationship(w http.ResponseWriter, r *http.Request) {
	var req updateRelationshipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	startDate, err := parseDateField(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start_date")
		return
	}
	endDate, err := parseDateField(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end_date")
		return
	}

	patch := reldomain.Patch{
		Category:             req.Category,
		GenerationDifference: req.GenerationDifference,
		Subtype:              req.Subtype,
		IsActive:             req.IsActive,
		Notes:                req.Notes,
	}
	if req.StartDate != nil {
		patch.StartDate = startDate
	}
	if req.EndDate != nil {
		patch.EndDate = endDate
	}

	relationshipID := chi.URLParam(r, "relationship_id")
	rel, err := h.Relationships.Update(r.Context(), relationshipID, patch)
	if err != nil {
		h.writeDomainError(w, "relationships.update", err, "relationship_id", relationshipID)
		return
	}
	writeJSON(w, http.StatusOK, toRelationshipResponse(rel))
}

func (h *Handlers) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	relationshipID := chi.URLParam(r, "relationship_id")
	if err := h.Relationships.Delete(r.Context(), relationshipID); err != nil {
		h.writeDomainError(w, "relationships.delete", err, "relationship_id", relationshipID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "relationship deleted"})
}

// ValidateRelationship runs the full validation pipeline without writing.
// Rule failures come back as a 200 with valid=false.
func (h *Handlers) ValidateRelationship(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	candidate, err := req.toCandidate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date field")
		return
	}

	result, err := h.Relationships.ValidateOnly(r.Context(), candidate)
	if err != nil {
		h.writeDomainError(w, "relationships.validate", err,
			"from_person_id", candidate.FromPersonID, "to_person_id", candidate.ToPersonID)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) RelationshipCategories(w http.ResponseWriter, r *http.Request) {
	categories := reldomain.Categories()
	out := make([]categoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryInfo{
			Name:            c,
			Symmetric:       reldomain.Symmetric(c),
			NeedsGeneration: c == reldomain.CategoryFamilyLine,
			Subtypes:        reldomain.SubtypesFor(c),
		})
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: out})
}

func (h *Handlers) ListPersonRelationships(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	edges, err := h.Relationships.ListForPerson(r.Context(), personID, category)
	if err != nil {
		h.writeDomainError(w, "relationships.list_person", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toRelationshipListResponse(edges))
}

func (h *Handlers) ListPersonRelationshipsDisplay(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	entries, err := h.Relationships.ListForPersonDisplay(r.Context(), personID)
	if err != nil {
		h.writeDomainError(w, "relationships.display", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
}

func (h *Handlers) PersonFamilyLine(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	view, err := h.Relationships.FamilyLine(r.Context(), personID)
	if err != nil {
		h.writeDomainError(w, "relationships.family_line", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, familyLineResponse{
		Parents:  toPersonListResponse(view.Parents).Items,
		Children: toPersonListResponse(view.Children).Items,
	})
}

func (h *Handlers) PersonPartners(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	people, err := h.Relationships.Partners(r.Context(), personID)
	if err != nil {
		h.writeDomainError(w, "relationships.partners", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonListResponse(people))
}

func (h *Handlers) PersonSiblings(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	people, err := h.Relationships.Siblings(r.Context(), personID)
	if err != nil {
		h.writeDomainError(w, "relationships.siblings", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonListResponse(people))
}

func (h *Handlers) PersonAncestors(w http.ResponseWriter, r *http.Request) {
	maxGenerations, err := parseIntParam(r.URL.Query().Get("max_generations"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid max_generations")
		return
	}

	personID := chi.URLParam(r, "person_id")
	people, err := h.Relationships.Ancestors(r.Context(), personID, maxGenerations)
	if err != nil {
		h.writeDomainError(w, "relationships.ancestors", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonListResponse(people))
}

func (h *Handlers) PersonDescendants(w http.ResponseWriter, r *http.Request) {
	maxGenerations, err := parseIntParam(r.URL.Query().Get("max_generations"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid max_generations")
		return
	}

	personID := chi.URLParam(r, "person_id")
	people, err := h.Relationships.Descendants(r.Context(), personID, maxGenerations)
	if err != nil {
		h.writeDomainError(w, "relationships.descendants", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonListResponse(people))
}

func (h *Handlers) ListTreeRelationships(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "tree_id")
	if _, err := h.Trees.Get(r.Context(), treeID); err != nil {
		h.writeDomainError(w, "relationships.list_tree", err, "tree_id", treeID)
		return
	}

	edges, err := h.Relationships.ListForTree(r.Context(), treeID)
	if err != nil {
		h.writeDomainError(w, "relationships.list_tree", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, toRelationshipListResponse(edges))
}

func (h *Handlers) TreeStatistics(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "tree_id")
	if _, err := h.Trees.Get(r.Context(), treeID); err != nil {
		h.writeDomainError(w, "relationships.statistics", err, "tree_id", treeID)
		return
	}

	stats, err := h.Relationships.Statistics(r.Context(), treeID)
	if err != nil {
		h.writeDomainError(w, "relationships.statistics", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) InferRelationships(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "tree_id")
	if _, err := h.Trees.Get(r.Context(), treeID); err != nil {
		h.writeDomainError(w, "relationships.infer", err, "tree_id", treeID)
		return
	}

	proposals, err := h.Relationships.InferMissing(r.Context(), treeID)
	if err != nil {
		h.writeDomainError(w, "relationships.infer", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, proposalsResponse{Proposals: proposals, Total: len(proposals)})
}

func (h *Handlers) FindPath(w http.ResponseWriter, r *http.Request) {
	maxDepth, err := parseIntParam(r.URL.Query().Get("max_depth"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid max_depth")
		return
	}

	person1ID := chi.URLParam(r, "person_id")
	person2ID := chi.URLParam(r, "other_person_id")
	result, err := h.Relationships.FindPath(r.Context(), person1ID, person2ID, maxDepth)
	if err != nil {
		h.writeDomainError(w, "relationships.path", err,
			"person1_id", person1ID, "person2_id", person2ID)
		return
	}

	path := make([]relationshipResponse, 0, len(result.Path))
	for i := range result.Path {
		path = append(path, toRelationshipResponse(&result.Path[i]))
	}
	writeJSON(w, http.StatusOK, pathResponse{Path: path, Found: result.Found, Depth: len(path)})
}
