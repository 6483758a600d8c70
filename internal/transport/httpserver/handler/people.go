package handler

import (
	"net/http"
	"strings"
	"time"

	persondomain "family-tree-go/internal/domain/person"
	"github.com/go-chi/chi/v5"
)

type createPersonRequest struct {
	TreeID     string  `json:"family_tree_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MaidenName string  `json:"maiden_name"`
	BirthDate  *string `json:"birth_date"`
	DeathDate  *string `json:"death_date"`
	BirthPlace string  `json:"birth_place"`
	DeathPlace string  `json:"death_place"`
	Bio        string  `json:"bio"`
	PhotoURL   string  `json:"profile_photo_url"`
}

type updatePersonRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	MaidenName *string `json:"maiden_name"`
	BirthDate  *string `json:"birth_date"`
	DeathDate  *string `json:"death_date"`
	BirthPlace *string `json:"birth_place"`
	DeathPlace *string `json:"death_place"`
	Bio        *string `json:"bio"`
	PhotoURL   *string `json:"profile_photo_url"`
}

type personResponse struct {
	ID         string     `json:"id"`
	TreeID     string     `json:"family_tree_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name,omitempty"`
	MaidenName string     `json:"maiden_name,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	DeathDate  *time.Time `json:"death_date,omitempty"`
	BirthPlace string     `json:"birth_place,omitempty"`
	DeathPlace string     `json:"death_place,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	PhotoURL   string     `json:"profile_photo_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type personListResponse struct {
	Items []personResponse `json:"items"`
	Total int              `json:"total"`
}

type ageResponse struct {
	PersonID string `json:"person_id"`
	Age      *int   `json:"age"`
}

func toPersonResponse(p *persondomain.Person) personResponse {
	return personResponse{
		ID:         p.ID,
		TreeID:     p.TreeID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MaidenName: p.MaidenName,
		BirthDate:  p.BirthDate,
		DeathDate:  p.DeathDate,
		BirthPlace: p.BirthPlace,
		DeathPlace: p.DeathPlace,
		Bio:        p.Bio,
		PhotoURL:   p.PhotoURL,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPersonListResponse(people []persondomain.Person) personListResponse {
	items := make([]personResponse, 0, len(people))
	for i := range people {
		items = append(items, toPersonResponse(&people[i]))
	}
	return personListResponse{Items: items, Total: len(items)}
}

func (h *Handlers) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.TreeID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_tree_id is required")
		return
	}
	if strings.TrimSpace(req.FirstName) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "first_name is required")
		return
	}

	birthDate, err := parseDateField(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid birth_date")
		return
	}
	deathDate, err := parseDateField(req.DeathDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid death_date")
		return
	}

	p, err := h.People.Create(r.Context(), persondomain.CreateInput{
		TreeID:     strings.TrimSpace(req.TreeID),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MaidenName: req.MaidenName,
		BirthDate:  birthDate,
		DeathDate:  deathDate,
		BirthPlace: req.BirthPlace,
		DeathPlace: req.DeathPlace,
		Bio:        req.Bio,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		h.writeDomainError(w, "people.create", err, "tree_id", req.TreeID)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonResponse(p))
}

func (h *Handlers) GetPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	p, err := h.People.Get(r.Context(), personID)
	if err != nil {
		h.writeDomainError(w, "people.get", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(p))
}

func (h *Handlers) ListPeople(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "tree_id")
	if _, err := h.Trees.Get(r.Context(), treeID); err != nil {
		h.writeDomainError(w, "people.list", err, "tree_id", treeID)
		return
	}

	people, err := h.People.ListByTree(r.Context(), treeID)
	if err != nil {
		h.writeDomainError(w, "people.list", err, "tree_id", treeID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonListResponse(people))
}

func (h *Handlers) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req updatePersonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	birthDate, err := parseDateField(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid birth_date")
		return
	}
	deathDate, err := parseDateField(req.DeathDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid death_date")
		return
	}

	personID := chi.URLParam(r, "person_id")
	p, err := h.People.Update(r.Context(), personID, persondomain.UpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MaidenName: req.MaidenName,
		BirthDate:  birthDate,
		DeathDate:  deathDate,
		BirthPlace: req.BirthPlace,
		DeathPlace: req.DeathPlace,
		Bio:        req.Bio,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		h.writeDomainError(w, "people.update", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(p))
}

func (h *Handlers) DeletePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")
	if err := h.People.Delete(r.Context(), personID); err != nil {
		h.writeDomainError(w, "people.delete", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "person deleted"})
}

func (h *Handlers) PersonAge(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid as_of")
		return
	}

	personID := chi.URLParam(r, "person_id")
	age, err := h.People.Age(r.Context(), personID, asOf)
	if err != nil {
		h.writeDomainError(w, "people.age", err, "person_id", personID)
		return
	}
	writeJSON(w, http.StatusOK, ageResponse{PersonID: personID, Age: age})
}
